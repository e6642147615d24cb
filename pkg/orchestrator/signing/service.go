package signing

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/mtsa"
	"github.com/kreditmy/signing-orchestrator/pkg/util"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

// ArtifactStore is the slice of the storage manager the workflow needs.
type ArtifactStore interface {
	SaveSignedPdf(ctx context.Context, pdfBase64, packetID, signerID string) (string, error)
}

// Service runs the end-to-end signing state machine and exposes its steps
// as standalone operations for the management API.
type Service interface {
	ProcessSigningWorkflow(ctx context.Context, req model.SigningRequest) model.SigningResponse
	EnrollUser(ctx context.Context, req model.EnrollmentRequest) model.EnrollmentResponse
	RequestSigningOTP(ctx context.Context, userID, emailAddress string) error
	VerifySignedPdf(ctx context.Context, pdfBase64 string) (mtsa.VerifyPDFSignatureResponse, error)
	DownloadPdfAsBase64(ctx context.Context, pdfURL string) (string, error)
}

type Config struct {
	SignatureCoordinates map[string]model.SignatureCoordinates `yaml:"signature_coordinates"`
	DownloadTimeoutMs    int                                   `yaml:"download_timeout_ms"`
	MaxDownloadMB        int                                   `yaml:"max_download_mb"`
}

type ServiceOption func(s *_Service)

// WithHTTPClient overrides the PDF download client.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *_Service) {
		s.httpClient = client
	}
}

type _Service struct {
	gateway     mtsa.Gateway
	store       ArtifactStore
	httpClient  *http.Client
	coordinates map[string]model.SignatureCoordinates
	maxDownload int64

	// Serializes the CHECK_CERT→ENROLL prefix per user within this process.
	// Cross-process duplicate enrollment still relies on the CA rejecting a
	// second request for a user with a valid certificate.
	enrollGroup singleflight.Group

	workflowStarted   metric.Int64Counter
	workflowCompleted metric.Int64Counter
	workflowFailed    metric.Int64Counter
}

func NewService(gateway mtsa.Gateway, store ArtifactStore, cfg Config, opts ...ServiceOption) Service {
	downloadTimeout := time.Duration(cfg.DownloadTimeoutMs) * time.Millisecond
	if downloadTimeout <= 0 {
		downloadTimeout = time.Minute
	}
	maxDownloadMB := cfg.MaxDownloadMB
	if maxDownloadMB <= 0 {
		maxDownloadMB = 50
	}

	svc := &_Service{
		gateway:           gateway,
		store:             store,
		httpClient:        &http.Client{Timeout: downloadTimeout},
		coordinates:       cfg.SignatureCoordinates,
		maxDownload:       int64(maxDownloadMB) << 20,
		workflowStarted:   otlp_util.NewInt64Counter("signing.workflow.started.count", metric.WithDescription("The total number of signing workflows started")),
		workflowCompleted: otlp_util.NewInt64Counter("signing.workflow.completed.count", metric.WithDescription("The total number of signing workflows completed")),
		workflowFailed:    otlp_util.NewInt64Counter("signing.workflow.failed.count", metric.WithDescription("The total number of signing workflows failed")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *_Service) ProcessSigningWorkflow(ctx context.Context, req model.SigningRequest) model.SigningResponse {
	log := util.CtxLogger(ctx).WithFields(req.LogFields())
	s.workflowStarted.Add(ctx, 1)

	fail := func(message, code, details string) model.SigningResponse {
		s.workflowFailed.Add(ctx, 1)
		log.WithField("error_code", code).Warnf("signing workflow failed: %s", details)
		return model.SigningResponse{
			Success: false,
			Message: message,
			Error:   model.NewWorkflowError(code, details),
		}
	}

	if err := ValidateSigningRequest(req); err != nil {
		return fail("invalid signing request", model.CodeWorkflowError, err.Error())
	}
	log.Info("starting signing workflow")

	certInfo, wfErr := s.ensureCertificate(ctx, req.SignerInfo, req.OTP)
	if wfErr != nil {
		return fail(enrollmentFailureMessage(wfErr.Code), wfErr.Code, wfErr.Details)
	}

	pdfBase64, err := s.DownloadPdfAsBase64(ctx, req.PdfURL)
	if err != nil {
		return fail("signing workflow failed", model.CodeWorkflowError, err.Error())
	}

	if err := s.RequestSigningOTP(ctx, req.SignerInfo.UserID, req.SignerInfo.EmailAddress); err != nil {
		return fail("failed to send signing OTP", model.CodeOTPFailed, err.Error())
	}

	signed, wfErr := s.signPdf(ctx, req, pdfBase64)
	if wfErr != nil {
		return fail("PDF signing failed", wfErr.Code, wfErr.Details)
	}

	filePath, err := s.store.SaveSignedPdf(ctx, signed.SignedPdfInBase64, req.PacketID, req.SignerInfo.UserID)
	if err != nil {
		return fail("failed to store signed PDF", model.CodeWorkflowError, err.Error())
	}

	s.workflowCompleted.Add(ctx, 1)
	log.Infof("signing workflow completed, artifact at %s", filePath)
	return model.SigningResponse{
		Success:         true,
		Message:         "Document signed successfully",
		SignedPdfPath:   filePath,
		CertificateInfo: certInfo,
	}
}

// enrollmentFailureMessage mirrors the per-step messages of EnrollUser so a
// workflow caller sees which enrollment step rejected, not a blanket message.
func enrollmentFailureMessage(code string) string {
	switch code {
	case model.CodeOTPFailed:
		return "failed to send enrollment OTP"
	case model.CodeEnrollmentError:
		return "enrollment process failed"
	default:
		return "certificate enrollment failed"
	}
}

type enrollOutcome struct {
	cert    *model.CertificateInfo
	failure *model.WorkflowError
}

// ensureCertificate is the CHECK_CERT→ENROLL prefix of the state machine.
// A lookup failure counts as "no certificate" and leads to enrollment; only
// an enrollment failure is fatal.
func (s *_Service) ensureCertificate(ctx context.Context, signer model.SignerInfo, otp string) (*model.CertificateInfo, *model.WorkflowError) {
	log := util.CtxLogger(ctx).WithFields(signer.LogFields())

	v, _, _ := s.enrollGroup.Do(signer.UserID, func() (interface{}, error) {
		info := s.checkCertificateStatus(ctx, signer.UserID)
		if info != nil && info.CertStatus == mtsa.CertStatusValid {
			return enrollOutcome{cert: info.CertificateInfo()}, nil
		}

		currentStatus := mtsa.CertStatusUnknown
		if info != nil {
			currentStatus = info.CertStatus
		}
		log.WithField("cert_status", currentStatus).
			Info("certificate not found or invalid, starting enrollment")

		res := s.EnrollUser(ctx, model.EnrollmentRequest{
			SignerInfo:       signer,
			VerificationData: systemVerificationData(),
			OTP:              otp,
		})
		if !res.Success {
			return enrollOutcome{failure: res.Error}, nil
		}
		return enrollOutcome{cert: res.CertificateInfo}, nil
	})

	outcome := v.(enrollOutcome)
	return outcome.cert, outcome.failure
}

func (s *_Service) checkCertificateStatus(ctx context.Context, userID string) *mtsa.GetCertInfoResponse {
	log := util.CtxLogger(ctx).WithField("signer_id", userID)

	res, err := s.gateway.GetCertInfo(ctx, mtsa.GetCertInfoRequest{UserID: userID})
	if err != nil {
		log.Warnf("certificate status check failed: %v", err)
		return nil
	}
	if !res.OK() {
		log.WithField("status_code", res.StatusCode).Info("no certificate on record")
		return nil
	}
	return &res
}

func (s *_Service) EnrollUser(ctx context.Context, req model.EnrollmentRequest) model.EnrollmentResponse {
	log := util.CtxLogger(ctx).WithFields(req.LogFields())

	fail := func(message, code, details string) model.EnrollmentResponse {
		log.WithField("error_code", code).Warnf("enrollment failed: %s", details)
		return model.EnrollmentResponse{
			Success: false,
			Message: message,
			Error:   model.NewWorkflowError(code, details),
		}
	}

	if err := ValidateEnrollmentRequest(req); err != nil {
		return fail("invalid enrollment request", model.CodeEnrollmentError, err.Error())
	}
	log.Info("starting user enrollment")

	otpRes, err := s.gateway.RequestEmailOTP(ctx, mtsa.RequestEmailOTPRequest{
		UserID:       req.SignerInfo.UserID,
		OTPUsage:     mtsa.OTPUsageNewEnrollment,
		EmailAddress: req.SignerInfo.EmailAddress,
	})
	if err != nil {
		return fail("failed to send enrollment OTP", model.CodeOTPFailed, err.Error())
	}
	if !otpRes.OK() {
		return fail("failed to send enrollment OTP", model.CodeOTPFailed, otpRes.Message)
	}

	certReq := mtsa.RequestCertificateRequest{
		UserID:           req.SignerInfo.UserID,
		FullName:         req.SignerInfo.FullName,
		EmailAddress:     req.SignerInfo.EmailAddress,
		MobileNo:         req.SignerInfo.MobileNo,
		Nationality:      req.SignerInfo.Nationality,
		UserType:         req.SignerInfo.UserType,
		IDType:           "N",
		AuthFactor:       req.OTP,
		VerificationData: mtsa.NewVerificationRecord(req.VerificationData),
	}
	if certReq.Nationality == "" {
		certReq.Nationality = "MY"
	}
	if certReq.MobileNo == "" {
		// MTSA insists on a mobile number even for email-OTP enrollments.
		certReq.MobileNo = "60123456789"
	}
	if evidence := req.VerificationData.Evidence; evidence != nil {
		certReq.NRICFront = evidence.NRICFront
		certReq.NRICBack = evidence.NRICBack
		certReq.PassportImage = evidence.PassportImage
		certReq.SelfieImage = evidence.SelfieImage
	}

	certRes, err := s.gateway.RequestCertificate(ctx, certReq)
	if err != nil {
		return fail("enrollment process failed", model.CodeEnrollmentError, err.Error())
	}
	if !certRes.OK() {
		return fail("certificate enrollment failed", model.CodeEnrollmentFailed, certRes.Message)
	}

	log.WithField("cert_serial_no", certRes.CertSerialNo).Info("user enrollment completed")
	return model.EnrollmentResponse{
		Success: true,
		Message: "Certificate enrolled successfully",
		CertificateInfo: &model.CertificateInfo{
			SerialNo:  certRes.CertSerialNo,
			ValidFrom: certRes.ValidFrom,
			ValidTo:   certRes.ValidTo,
			Status:    string(mtsa.CertStatusValid),
		},
	}
}

// RequestSigningOTP asks the CA to mail a digital-signing OTP. A rejection
// here aborts the workflow before SignPDF is attempted; signing without a
// verified OTP would be bounced by the CA's own AuthFactor check anyway.
func (s *_Service) RequestSigningOTP(ctx context.Context, userID, emailAddress string) error {
	log := util.CtxLogger(ctx).WithField("signer_id", userID)
	log.Info("requesting signing OTP")

	res, err := s.gateway.RequestEmailOTP(ctx, mtsa.RequestEmailOTPRequest{
		UserID:       userID,
		OTPUsage:     mtsa.OTPUsageDigitalSigning,
		EmailAddress: emailAddress,
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("signing OTP rejected with status %s: %s%w", res.StatusCode, res.Message, model.ErrWorkflowError)
	}
	log.Info("signing OTP sent")
	return nil
}

func (s *_Service) signPdf(ctx context.Context, req model.SigningRequest, pdfBase64 string) (mtsa.SignPDFResponse, *model.WorkflowError) {
	coordinates := req.Coordinates
	if coordinates == nil {
		if c, ok := s.coordinates[req.TemplateID]; ok {
			coordinates = &c
		}
	}

	fieldUpdates := lo.Assign(model.FieldUpdates{
		"CURR_DATE":       time.Now().Format("02/01/2006"),
		"SIGNER_FULLNAME": req.SignerInfo.FullName,
		"SIGNER_ID":       req.SignerInfo.UserID,
	}, req.FieldUpdates)

	signReq := mtsa.SignPDFRequest{
		UserID:     req.SignerInfo.UserID,
		FullName:   req.SignerInfo.FullName,
		AuthFactor: req.OTP,
		SignatureInfo: mtsa.SignatureInfo{
			PdfInBase64:      pdfBase64,
			Visibility:       coordinates != nil,
			Coordinates:      coordinates,
			SigImageInBase64: req.SignatureImage,
		},
		FieldListToUpdate: fieldEntries(fieldUpdates),
	}

	res, err := s.gateway.SignPDF(ctx, signReq)
	if err != nil {
		return res, model.NewWorkflowError(model.CodeWorkflowError, err.Error())
	}
	if !res.OK() {
		return res, model.NewWorkflowError(model.CodeSigningFailed, res.Message)
	}
	return res, nil
}

func (s *_Service) VerifySignedPdf(ctx context.Context, pdfBase64 string) (mtsa.VerifyPDFSignatureResponse, error) {
	if !util.IsValidBase64(pdfBase64) {
		return mtsa.VerifyPDFSignatureResponse{}, fmt.Errorf("signed PDF is not valid base64%w", model.ErrInvalidParameter)
	}
	return s.gateway.VerifyPDFSignature(ctx, mtsa.VerifyPDFSignatureRequest{SignedPdfInBase64: pdfBase64})
}

// DownloadPdfAsBase64 fetches the unsigned document. Failures here are
// fatal to the workflow and not retried; the gateway retry policy covers CA
// calls only.
func (s *_Service) DownloadPdfAsBase64(ctx context.Context, pdfURL string) (string, error) {
	log := util.CtxLogger(ctx).WithField("pdf_url", pdfURL)
	log.Info("downloading unsigned PDF")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("User-Agent", "signing-orchestrator/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download PDF: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download PDF: unexpected status code %d", resp.StatusCode)
	}

	// Read one byte past the cap so an oversized document fails instead of
	// being silently truncated into a corrupt artifact.
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxDownload+1))
	if err != nil {
		return "", fmt.Errorf("read PDF body: %w", err)
	}
	if int64(len(data)) > s.maxDownload {
		return "", fmt.Errorf("download PDF: document exceeds the %d byte limit", s.maxDownload)
	}

	log.WithField("size_bytes", len(data)).Info("unsigned PDF downloaded")
	return base64.StdEncoding.EncodeToString(data), nil
}

func systemVerificationData() model.VerificationData {
	return model.VerificationData{
		Status:   "verified",
		Datetime: time.Now().Format(time.RFC3339),
		Verifier: "system",
		Method:   "ekyc_with_liveness",
	}
}

func fieldEntries(updates model.FieldUpdates) []mtsa.FieldEntry {
	keys := lo.Keys(updates)
	sort.Strings(keys)

	entries := make([]mtsa.FieldEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, mtsa.FieldEntry{Name: key, Value: updates[key]})
	}
	return entries
}
