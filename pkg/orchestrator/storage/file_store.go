package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
	"github.com/samber/lo"
)

type Config struct {
	SignedFilesDir string `yaml:"signed_files_dir"`
}

type FileStats struct {
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// FileStore persists signed-PDF artifacts under <root>/<packetID>/. Writes
// are append-only: a new signing attempt for the same packet/signer gets a
// fresh timestamped filename, never an in-place overwrite, so concurrent
// writers cannot corrupt each other.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("signed files directory is not configured%w", model.ErrInvalidParameter)
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) SaveSignedPdf(ctx context.Context, pdfBase64, packetID, signerID string) (string, error) {
	log := util.CtxLogger(ctx)

	pdfBytes, err := base64.StdEncoding.DecodeString(pdfBase64)
	if err != nil {
		return "", fmt.Errorf("signed PDF is not valid base64%w", model.ErrInvalidParameter)
	}

	packetDir := filepath.Join(s.root, sanitizePathElement(packetID))
	if err := os.MkdirAll(packetDir, 0o700); err != nil {
		return "", fmt.Errorf("create packet directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%d.pdf", sanitizePathElement(signerID), time.Now().UnixNano())
	filePath := filepath.Join(packetDir, filename)
	if err := os.WriteFile(filePath, pdfBytes, 0o600); err != nil {
		return "", fmt.Errorf("write signed PDF: %w", err)
	}

	log.WithField("packet_id", packetID).
		WithField("signer_id", signerID).
		WithField("size_bytes", len(pdfBytes)).
		Infof("signed PDF stored at %s", filePath)
	return filePath, nil
}

// ListSignedPdfs returns the artifact paths of a packet, oldest first. A
// packet with no artifacts lists empty, not an error.
func (s *FileStore) ListSignedPdfs(packetID string) ([]string, error) {
	packetDir := filepath.Join(s.root, sanitizePathElement(packetID))
	entries, err := os.ReadDir(packetDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read packet directory: %w", err)
	}

	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			return "", false
		}
		return filepath.Join(packetDir, entry.Name()), true
	})
	sort.Strings(files)
	return files, nil
}

func (s *FileStore) FileStats(path string) (*FileStats, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	return &FileStats{
		Path:     path,
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Writable probes the storage root for the health check.
func (s *FileStore) Writable() error {
	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage root not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// sanitizePathElement keeps packet and signer identifiers from escaping the
// storage root.
func sanitizePathElement(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "_"
	}
	return filepath.Base(cleaned)
}
