package api

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/mtsa"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/notifier"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/signing"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/storage"
	"github.com/samber/lo"
)

type Config struct {
	LocalAddress      string   `yaml:"local_address"`
	APIToken          string   `yaml:"api_token"`
	WebhookSecret     string   `yaml:"webhook_secret"`
	AllowOrigins      []string `yaml:"allow_origins"`
	RateLimitMax      int      `yaml:"rate_limit_max"`
	RateLimitWindowMs int      `yaml:"rate_limit_window_ms"`
	WorkflowTimeoutMs int      `yaml:"workflow_timeout_ms"`
	MaxUploadMB       int      `yaml:"max_upload_mb"`
}

// ArtifactCatalog is the slice of the storage manager the API reads from.
type ArtifactCatalog interface {
	ListSignedPdfs(packetID string) ([]string, error)
	FileStats(path string) (*storage.FileStats, error)
	Writable() error
}

type API struct {
	service  signing.Service
	gateway  mtsa.Gateway
	catalog  ArtifactCatalog
	notifier notifier.Notifier

	webhookSecret   string
	workflowTimeout time.Duration
	maxUpload       int64

	httpServer *http.Server
}

func NewAPIWithController(service signing.Service, gateway mtsa.Gateway, catalog ArtifactCatalog, resultNotifier notifier.Notifier, cfg Config) (*API, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("API token is not configured")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("webhook secret is not configured")
	}

	workflowTimeout := time.Duration(cfg.WorkflowTimeoutMs) * time.Millisecond
	if workflowTimeout <= 0 {
		workflowTimeout = 5 * time.Minute
	}
	maxUploadMB := cfg.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 30
	}

	apiServer := &API{
		service:         service,
		gateway:         gateway,
		catalog:         catalog,
		notifier:        resultNotifier,
		webhookSecret:   cfg.WebhookSecret,
		workflowTimeout: workflowTimeout,
		maxUpload:       int64(maxUploadMB) << 20,
	}

	r := mux.NewRouter()
	r.Use(CorrelationID, Log)
	r.HandleFunc("/health", apiServer.health).Methods(http.MethodGet)
	r.HandleFunc("/webhooks/docuseal", apiServer.handleWebhook).Methods(http.MethodPost)

	rateLimiter := NewRateLimiter(cfg.RateLimitMax, time.Duration(cfg.RateLimitWindowMs)*time.Millisecond)
	mgmtRouter := r.PathPrefix("/api").Subrouter()
	mgmtRouter.Use(rateLimiter.Limit, NewTokenAuth(cfg.APIToken).Authenticate)
	mgmtRouter.HandleFunc("/sign", apiServer.sign).Methods(http.MethodPost)
	mgmtRouter.HandleFunc("/enroll", apiServer.enroll).Methods(http.MethodPost)
	mgmtRouter.HandleFunc("/verify", apiServer.verify).Methods(http.MethodPost)
	mgmtRouter.HandleFunc("/cert/{userId}", apiServer.getCertificate).Methods(http.MethodGet)
	mgmtRouter.HandleFunc("/otp", apiServer.requestOTP).Methods(http.MethodPost)
	mgmtRouter.HandleFunc("/signed/{packetId}", apiServer.listSignedFiles).Methods(http.MethodGet)
	mgmtRouter.HandleFunc("/revoke", apiServer.revoke).Methods(http.MethodPost)

	var handler http.Handler = r
	if len(cfg.AllowOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.AllowOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-API-Key", "X-Correlation-ID"}),
		)(r)
	}

	apiServer.httpServer = &http.Server{
		Addr:    cfg.LocalAddress,
		Handler: handler,
	}
	return apiServer, nil
}

func (a *API) Run() error {
	err := a.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Close(ctx context.Context) error {
	a.httpServer.SetKeepAlivesEnabled(false)
	return a.httpServer.Shutdown(ctx)
}

type componentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	components := map[string]componentHealth{
		"gateway": {Status: "up"},
		"storage": {Status: "up"},
	}
	healthy := true
	if err := a.gateway.Health(ctx); err != nil {
		components["gateway"] = componentHealth{Status: "down", Detail: err.Error()}
		healthy = false
	}
	if err := a.catalog.Writable(); err != nil {
		components["storage"] = componentHealth{Status: "down", Detail: err.Error()}
		healthy = false
	}

	status := http.StatusOK
	message := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		message = "degraded"
	}
	writeJSON(w, r, status, Response{Success: healthy, Message: message, Data: components})
}

func (a *API) sign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SigningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := signing.ValidateSigningRequest(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.service.ProcessSigningWorkflow(ctx, req)
	if !res.Success {
		writeJSON(w, r, http.StatusBadRequest, Response{Success: false, Message: res.Message, Error: res.Error})
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: res.Message, Data: res})
}

func (a *API) enroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.EnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := signing.ValidateEnrollmentRequest(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.service.EnrollUser(ctx, req)
	if !res.Success {
		writeJSON(w, r, http.StatusBadRequest, Response{Success: false, Message: res.Message, Error: res.Error})
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: res.Message, Data: res})
}

// verify accepts a signed PDF either as a multipart upload or as JSON
// {"pdfBase64": ...} and relays the CA's signature report.
func (a *API) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)

	pdfBase64, ok := a.verifyPayload(w, r)
	if !ok {
		return
	}

	res, err := a.service.VerifySignedPdf(ctx, pdfBase64)
	if errors.Is(err, model.ErrInvalidParameter) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if !res.OK() {
		writeJSON(w, r, http.StatusUnprocessableEntity, Response{Success: false, Message: res.Message, Data: res})
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: res.Message, Data: res})
}

// verifyPayload extracts the base64 PDF from either supported request
// shape. It writes the error response itself when the payload is unusable.
func (a *API) verifyPayload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			PdfBase64 string `json:"pdfBase64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return "", false
		}
		if req.PdfBase64 == "" {
			writeError(w, r, http.StatusBadRequest, "pdfBase64: cannot be blank")
			return "", false
		}
		return req.PdfBase64, true
	}

	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing file field")
		return "", false
	}
	defer func() { _ = file.Close() }()

	if contentType := header.Header.Get("Content-Type"); contentType != "" && contentType != "application/pdf" && contentType != "application/octet-stream" {
		writeError(w, r, http.StatusBadRequest, "only application/pdf uploads are accepted")
		return "", false
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read upload: "+err.Error())
		return "", false
	}
	return base64.StdEncoding.EncodeToString(pdfBytes), true
}

func (a *API) getCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mux.Vars(r)["userId"]

	res, err := a.gateway.GetCertInfo(ctx, mtsa.GetCertInfoRequest{UserID: userID})
	if errors.Is(err, model.ErrInvalidParameter) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if !res.OK() {
		writeJSON(w, r, http.StatusNotFound, Response{Success: false, Message: res.Message})
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Data: res.CertificateInfo()})
}

type otpRequest struct {
	UserID       string        `json:"userId"`
	EmailAddress string        `json:"emailAddress"`
	Usage        mtsa.OTPUsage `json:"usage"`
}

func (a *API) requestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, r, http.StatusBadRequest, "userId: cannot be blank")
		return
	}

	var err error
	switch req.Usage {
	case mtsa.OTPUsageNewEnrollment:
		var res mtsa.RequestEmailOTPResponse
		res, err = a.gateway.RequestEmailOTP(ctx, mtsa.RequestEmailOTPRequest{
			UserID:       req.UserID,
			OTPUsage:     mtsa.OTPUsageNewEnrollment,
			EmailAddress: req.EmailAddress,
		})
		if err == nil && !res.OK() {
			writeJSON(w, r, http.StatusUnprocessableEntity, Response{Success: false, Message: res.Message})
			return
		}
	case mtsa.OTPUsageDigitalSigning:
		err = a.service.RequestSigningOTP(ctx, req.UserID, req.EmailAddress)
	default:
		writeError(w, r, http.StatusBadRequest, "usage must be DS or NU")
		return
	}
	if errors.Is(err, model.ErrInvalidParameter) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, model.ErrWorkflowError) {
		writeJSON(w, r, http.StatusUnprocessableEntity, Response{Success: false, Message: err.Error()})
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "OTP sent"})
}

func (a *API) listSignedFiles(w http.ResponseWriter, r *http.Request) {
	packetID := mux.Vars(r)["packetId"]

	paths, err := a.catalog.ListSignedPdfs(packetID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	files := lo.FilterMap(paths, func(path string, _ int) (*storage.FileStats, bool) {
		stats, err := a.catalog.FileStats(path)
		if err != nil || stats == nil {
			return nil, false
		}
		return stats, true
	})
	writeJSON(w, r, http.StatusOK, Response{Success: true, Data: files})
}

type revokeRequest struct {
	UserID       string            `json:"userId"`
	CertSerialNo string            `json:"certSerialNo"`
	RevokeReason mtsa.RevokeReason `json:"revokeReason"`
	RevokeBy     string            `json:"revokeBy"`
	OTP          string            `json:"otp,omitempty"`
}

func (a *API) revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RevokeBy == "" {
		req.RevokeBy = "Admin"
	}

	res, err := a.gateway.RequestRevokeCert(ctx, mtsa.RequestRevokeCertRequest{
		UserID:       req.UserID,
		CertSerialNo: req.CertSerialNo,
		RevokeReason: req.RevokeReason,
		RevokeBy:     req.RevokeBy,
		AuthFactor:   req.OTP,
		VerificationData: mtsa.VerificationRecord{
			VerifyDatetime: time.Now().Format(time.RFC3339),
			VerifyMethod:   "admin_request",
			VerifyStatus:   "verified",
			VerifyVerifier: "system",
		},
	})
	if errors.Is(err, model.ErrInvalidParameter) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if !res.OK() {
		writeJSON(w, r, http.StatusUnprocessableEntity, Response{Success: false, Message: res.Message})
		return
	}
	writeJSON(w, r, http.StatusOK, Response{Success: true, Message: res.Message, Data: res})
}
