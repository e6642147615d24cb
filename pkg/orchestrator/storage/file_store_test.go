package storage_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSignedPdf(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	pdf := []byte("%PDF-1.7 fake signed document")
	path, err := store.SaveSignedPdf(context.Background(), base64.StdEncoding.EncodeToString(pdf), "pkt-1", "900101011234")
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, written)
	assert.Equal(t, "pkt-1", filepath.Base(filepath.Dir(path)))
}

func TestSaveSignedPdfIsAppendOnly(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 attempt"))
	first, err := store.SaveSignedPdf(context.Background(), encoded, "pkt-1", "900101011234")
	require.NoError(t, err)
	second, err := store.SaveSignedPdf(context.Background(), encoded, "pkt-1", "900101011234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	files, err := store.ListSignedPdfs("pkt-1")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestSaveSignedPdfRejectsBadBase64(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveSignedPdf(context.Background(), "not base64!!", "pkt-1", "900101011234")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidParameter))
}

func TestSaveSignedPdfSanitizesIdentifiers(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewFileStore(root)
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))
	path, err := store.SaveSignedPdf(context.Background(), encoded, "../../etc", "../passwd")
	require.NoError(t, err)

	rel, err := filepath.Rel(root, path)
	require.NoError(t, err)
	assert.False(t, filepath.IsAbs(rel))
	assert.False(t, strings.HasPrefix(rel, ".."), "artifact escaped the storage root: %s", rel)
}

func TestListSignedPdfsUnknownPacket(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	files, err := store.ListSignedPdfs("no-such-packet")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileStats(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	pdf := []byte("%PDF-1.7 fake signed document")
	path, err := store.SaveSignedPdf(context.Background(), base64.StdEncoding.EncodeToString(pdf), "pkt-1", "900101011234")
	require.NoError(t, err)

	stats, err := store.FileStats(path)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(len(pdf)), stats.Size)
	assert.Equal(t, filepath.Base(path), stats.Filename)

	missing, err := store.FileStats(filepath.Join(filepath.Dir(path), "missing.pdf"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWritable(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Writable())
}
