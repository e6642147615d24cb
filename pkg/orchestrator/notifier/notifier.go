package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
)

type Config struct {
	CallbackURL string `yaml:"callback_url"`
	Secret      string `yaml:"secret"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	MaxRetry    int    `yaml:"max_retry"`
}

// Notifier posts workflow outcomes back to the caller.
type Notifier interface {
	NotifySigningResult(ctx context.Context, packetID string, res model.SigningResponse) error
}

// Result is the callback body shape.
type Result struct {
	PacketID      string                 `json:"packetId"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	SignedPdfPath string                 `json:"signedPdfPath,omitempty"`
	Error         *model.WorkflowError   `json:"error,omitempty"`
	NotifiedAt    string                 `json:"notifiedAt"`
	Certificate   *model.CertificateInfo `json:"certificateInfo,omitempty"`
}

type _Notifier struct {
	callbackURL string
	secret      string
	timeout     time.Duration
	maxRetry    uint
}

// NewNotifierWithConfig returns a callback notifier, or a no-op one when no
// callback URL is configured.
func NewNotifierWithConfig(cfg Config) Notifier {
	if cfg.CallbackURL == "" {
		return _NopNotifier{}
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetry := cfg.MaxRetry
	if maxRetry < 1 {
		maxRetry = 3
	}
	return &_Notifier{
		callbackURL: cfg.CallbackURL,
		secret:      cfg.Secret,
		timeout:     timeout,
		maxRetry:    uint(maxRetry),
	}
}

func (n *_Notifier) NotifySigningResult(ctx context.Context, packetID string, res model.SigningResponse) error {
	log := util.CtxLogger(ctx).WithField("packet_id", packetID)

	result := Result{
		PacketID:      packetID,
		CorrelationID: util.CorrelationID(ctx),
		Success:       res.Success,
		Message:       res.Message,
		SignedPdfPath: res.SignedPdfPath,
		Error:         res.Error,
		NotifiedAt:    time.Now().Format(time.RFC3339),
		Certificate:   res.CertificateInfo,
	}
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal signing result: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	transport.MaxIdleConnsPerHost = -1
	client := http.Client{Timeout: n.timeout, Transport: transport}

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, util.StructToJSONReader(result))
			if err != nil {
				return fmt.Errorf("create callback request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if n.secret != "" {
				req.Header.Set("X-Payload-Signature", util.SignPayload(body, n.secret))
			}

			resp, err := client.Do(req)
			if err != nil {
				log.Debugf("post signing result: %v", err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK {
				respBody, _ := io.ReadAll(resp.Body)
				log.Debugf("%s returned %v: %s", n.callbackURL, resp.StatusCode, string(respBody))
				return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
			}
			return nil
		},
		retry.Attempts(n.maxRetry),
		retry.Context(ctx),
	)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("exceed maximum retries posting signing result. %w", err)
	}
	log.Info("signing result delivered")
	return nil
}

type _NopNotifier struct{}

func (_NopNotifier) NotifySigningResult(context.Context, string, model.SigningResponse) error {
	return nil
}
