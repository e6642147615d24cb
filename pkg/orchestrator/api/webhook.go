package api

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
)

const maxWebhookBodyBytes = 1 << 20

// handleWebhook is the DocuSeal ingress. The HMAC check runs against the
// raw body before any parsing; once the event is authenticated and parsed
// the endpoint acknowledges immediately and runs the signing workflow in
// the background, because DocuSeal's delivery timeout is far shorter than
// a full enroll-and-sign round trip.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := util.CtxLogger(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}

	signature := r.Header.Get("X-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Hub-Signature-256")
	}
	if signature == "" {
		writeError(w, r, http.StatusUnauthorized, model.ErrMissingSignature.Error())
		return
	}
	if !util.VerifySignature(body, signature, a.webhookSecret) {
		log.Warn("webhook signature mismatch")
		writeError(w, r, http.StatusUnauthorized, model.ErrSignatureMismatch.Error())
		return
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid webhook payload: "+err.Error())
		return
	}
	if payload.EventType == "" {
		writeError(w, r, http.StatusBadRequest, "webhook payload has no event_type")
		return
	}
	if payload.Data == nil {
		writeError(w, r, http.StatusBadRequest, "webhook payload has no data")
		return
	}

	log = log.WithField("event_type", string(payload.EventType)).
		WithField("packet_id", payload.Data.Packet())

	switch payload.EventType {
	case model.WebhookEventSignerSubmitted:
		a.dispatchSigningWorkflow(ctx, payload.Data)
		writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "webhook accepted"})
	case model.WebhookEventPacketCompleted:
		log.Info("packet completed")
		a.forwardPacketCompleted(ctx, payload.Data)
		writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "webhook accepted"})
	default:
		log.Info("ignoring unhandled webhook event")
		writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "event ignored"})
	}
}

// dispatchSigningWorkflow validates the event carries a usable signer and
// starts the workflow on a detached context so the HTTP response does not
// cancel it.
func (a *API) dispatchSigningWorkflow(ctx context.Context, data *model.WebhookData) {
	log := util.CtxLogger(ctx).WithField("packet_id", data.Packet())

	signer := data.SignerInfo()
	if signer.UserID == "" || signer.FullName == "" || signer.EmailAddress == "" || data.UnsignedPdfURL == "" {
		log.WithFields(signer.LogFields()).Warn("dropping webhook event with incomplete signer")
		return
	}

	req := model.SigningRequest{
		PacketID:   data.Packet(),
		DocumentID: data.DocumentID,
		TemplateID: data.TemplateID,
		SignerInfo: signer,
		PdfURL:     data.UnsignedPdfURL,
	}

	workflowCtx := util.WithCorrelationID(context.Background(), util.CorrelationID(ctx))
	go func() {
		ctx, cancel := context.WithTimeout(workflowCtx, a.workflowTimeout)
		defer cancel()

		res := a.service.ProcessSigningWorkflow(ctx, req)
		if err := a.notifier.NotifySigningResult(ctx, req.PacketID, res); err != nil {
			util.CtxLogger(ctx).Warnf("failed to deliver signing result for packet %s: %v", req.PacketID, err)
		}
	}()
}

// forwardPacketCompleted relays the completion event to the notification
// webhook so the caller learns the whole packet is done without polling.
func (a *API) forwardPacketCompleted(ctx context.Context, data *model.WebhookData) {
	packetID := data.Packet()
	notifyCtx := util.WithCorrelationID(context.Background(), util.CorrelationID(ctx))
	go func() {
		ctx, cancel := context.WithTimeout(notifyCtx, a.workflowTimeout)
		defer cancel()

		res := model.SigningResponse{Success: true, Message: "Packet completed"}
		if err := a.notifier.NotifySigningResult(ctx, packetID, res); err != nil {
			util.CtxLogger(ctx).Warnf("failed to forward packet completion for packet %s: %v", packetID, err)
		}
	}()
}
