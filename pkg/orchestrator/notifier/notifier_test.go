package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/notifier"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySigningResult(t *testing.T) {
	const secret = "callback-secret"

	var received atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.True(t, util.VerifySignature(body, r.Header.Get("X-Payload-Signature"), secret))
		received.Store(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notifier.NewNotifierWithConfig(notifier.Config{
		CallbackURL: server.URL,
		Secret:      secret,
	})

	ctx := util.WithCorrelationID(context.Background(), "corr-42")
	res := model.SigningResponse{
		Success:       true,
		Message:       "Document signed successfully",
		SignedPdfPath: "/data/signed/pkt-1/doc.pdf",
	}
	require.NoError(t, n.NotifySigningResult(ctx, "pkt-1", res))

	var body notifier.Result
	require.NoError(t, json.Unmarshal(received.Load().([]byte), &body))
	assert.Equal(t, "pkt-1", body.PacketID)
	assert.Equal(t, "corr-42", body.CorrelationID)
	assert.True(t, body.Success)
	assert.Equal(t, "/data/signed/pkt-1/doc.pdf", body.SignedPdfPath)
	assert.NotEmpty(t, body.NotifiedAt)
}

func TestNotifySigningResultRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notifier.NewNotifierWithConfig(notifier.Config{
		CallbackURL: server.URL,
		MaxRetry:    3,
	})

	err := n.NotifySigningResult(context.Background(), "pkt-1", model.SigningResponse{Success: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestNotifySigningResultExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := notifier.NewNotifierWithConfig(notifier.Config{
		CallbackURL: server.URL,
		MaxRetry:    2,
	})

	err := n.NotifySigningResult(context.Background(), "pkt-1", model.SigningResponse{Success: false})
	require.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestNotifierWithoutCallbackURLIsNoop(t *testing.T) {
	n := notifier.NewNotifierWithConfig(notifier.Config{})
	assert.NoError(t, n.NotifySigningResult(context.Background(), "pkt-1", model.SigningResponse{Success: true}))
}
