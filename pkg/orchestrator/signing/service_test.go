package signing_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/mtsa"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/signing"
	mock_mtsa "github.com/kreditmy/signing-orchestrator/test/mock/orchestrator/mtsa"
	mock_signing "github.com/kreditmy/signing-orchestrator/test/mock/orchestrator/signing"
	"github.com/stretchr/testify/suite"
)

const unsignedPdf = "%PDF-1.7 unsigned"

type ServiceTestSuite struct {
	suite.Suite

	ctx       context.Context
	ctrl      *gomock.Controller
	gateway   *mock_mtsa.MockGateway
	store     *mock_signing.MockArtifactStore
	pdfServer *httptest.Server
	service   signing.Service

	signer model.SignerInfo
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.gateway = mock_mtsa.NewMockGateway(s.ctrl)
	s.store = mock_signing.NewMockArtifactStore(s.ctrl)
	s.pdfServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unsigned.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(unsignedPdf))
	}))

	s.service = signing.NewService(s.gateway, s.store, signing.Config{
		SignatureCoordinates: map[string]model.SignatureCoordinates{
			"tpl-loan": {PageNo: 3, X1: 100, Y1: 200, X2: 300, Y2: 260},
		},
	})

	s.signer = model.SignerInfo{
		UserID:       "900101011234",
		FullName:     "Aminah binti Hassan",
		EmailAddress: "aminah@example.com",
		Nationality:  "MY",
		UserType:     model.UserTypeExternalBorrower,
	}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.pdfServer.Close()
	s.ctrl.Finish()
}

func (s *ServiceTestSuite) signingRequest() model.SigningRequest {
	return model.SigningRequest{
		PacketID:   "pkt-1",
		TemplateID: "tpl-loan",
		SignerInfo: s.signer,
		PdfURL:     s.pdfServer.URL + "/unsigned.pdf",
		OTP:        "123456",
	}
}

func (s *ServiceTestSuite) expectValidCertificate() {
	s.gateway.EXPECT().
		GetCertInfo(gomock.Any(), mtsa.GetCertInfoRequest{UserID: s.signer.UserID}).
		Return(mtsa.GetCertInfoResponse{
			Envelope:     mtsa.Envelope{StatusCode: mtsa.StatusOK, Message: "Success"},
			CertStatus:   mtsa.CertStatusValid,
			CertSerialNo: "SN-1",
		}, nil)
}

func (s *ServiceTestSuite) expectSigningOTP() {
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), mtsa.RequestEmailOTPRequest{
			UserID:       s.signer.UserID,
			OTPUsage:     mtsa.OTPUsageDigitalSigning,
			EmailAddress: s.signer.EmailAddress,
		}).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: mtsa.StatusOK, Message: "OTP sent"},
			OTPSent:  true,
		}, nil)
}

func (s *ServiceTestSuite) TestWorkflowWithExistingCertificate() {
	s.expectValidCertificate()
	s.expectSigningOTP()

	var capturedSignReq mtsa.SignPDFRequest
	s.gateway.EXPECT().
		SignPDF(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req mtsa.SignPDFRequest) (mtsa.SignPDFResponse, error) {
			capturedSignReq = req
			return mtsa.SignPDFResponse{
				Envelope:          mtsa.Envelope{StatusCode: mtsa.StatusOK, Message: "Signed"},
				SignedPdfInBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 signed")),
			}, nil
		})
	s.store.EXPECT().
		SaveSignedPdf(gomock.Any(), gomock.Any(), "pkt-1", s.signer.UserID).
		Return("/data/signed/pkt-1/900101011234_1.pdf", nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().True(res.Success)
	s.Require().Nil(res.Error)
	s.Assert().Equal("/data/signed/pkt-1/900101011234_1.pdf", res.SignedPdfPath)
	s.Require().NotNil(res.CertificateInfo)
	s.Assert().Equal("SN-1", res.CertificateInfo.SerialNo)

	s.Assert().Equal("123456", capturedSignReq.AuthFactor)
	s.Assert().Equal(base64.StdEncoding.EncodeToString([]byte(unsignedPdf)), capturedSignReq.SignatureInfo.PdfInBase64)
	s.Require().True(capturedSignReq.SignatureInfo.Visibility)
	s.Require().NotNil(capturedSignReq.SignatureInfo.Coordinates)
	s.Assert().Equal(3, capturedSignReq.SignatureInfo.Coordinates.PageNo)

	fields := map[string]string{}
	for _, entry := range capturedSignReq.FieldListToUpdate {
		fields[entry.Name] = entry.Value
	}
	s.Assert().Equal(s.signer.FullName, fields["SIGNER_FULLNAME"])
	s.Assert().Equal(s.signer.UserID, fields["SIGNER_ID"])
	s.Assert().NotEmpty(fields["CURR_DATE"])
}

func (s *ServiceTestSuite) TestWorkflowEnrollsWhenCertificateInvalid() {
	s.gateway.EXPECT().
		GetCertInfo(gomock.Any(), mtsa.GetCertInfoRequest{UserID: s.signer.UserID}).
		Return(mtsa.GetCertInfoResponse{
			Envelope:   mtsa.Envelope{StatusCode: mtsa.StatusOK, Message: "Success"},
			CertStatus: mtsa.CertStatusInvalid,
		}, nil)
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), mtsa.RequestEmailOTPRequest{
			UserID:       s.signer.UserID,
			OTPUsage:     mtsa.OTPUsageNewEnrollment,
			EmailAddress: s.signer.EmailAddress,
		}).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: mtsa.StatusOK},
			OTPSent:  true,
		}, nil)
	s.gateway.EXPECT().
		RequestCertificate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req mtsa.RequestCertificateRequest) (mtsa.RequestCertificateResponse, error) {
			s.Assert().Equal(s.signer.UserID, req.UserID)
			s.Assert().Equal("MY", req.Nationality)
			s.Assert().NotEmpty(req.MobileNo)
			s.Assert().NotEmpty(req.VerificationData.VerifyDatetime)
			return mtsa.RequestCertificateResponse{
				Envelope:     mtsa.Envelope{StatusCode: mtsa.StatusOK, Message: "Enrolled"},
				CertSerialNo: "SN-2",
			}, nil
		})
	s.expectSigningOTP()
	s.gateway.EXPECT().
		SignPDF(gomock.Any(), gomock.Any()).
		Return(mtsa.SignPDFResponse{
			Envelope:          mtsa.Envelope{StatusCode: mtsa.StatusOK},
			SignedPdfInBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 signed")),
		}, nil)
	s.store.EXPECT().
		SaveSignedPdf(gomock.Any(), gomock.Any(), "pkt-1", s.signer.UserID).
		Return("/data/signed/pkt-1/900101011234_1.pdf", nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().True(res.Success)
	s.Require().NotNil(res.CertificateInfo)
	s.Assert().Equal("SN-2", res.CertificateInfo.SerialNo)
}

func (s *ServiceTestSuite) TestWorkflowFailsWhenEnrollmentRejected() {
	s.gateway.EXPECT().
		GetCertInfo(gomock.Any(), gomock.Any()).
		Return(mtsa.GetCertInfoResponse{
			Envelope: mtsa.Envelope{StatusCode: "9001", Message: "Certificate not found"},
		}, nil)
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), gomock.Any()).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: mtsa.StatusOK},
			OTPSent:  true,
		}, nil)
	s.gateway.EXPECT().
		RequestCertificate(gomock.Any(), gomock.Any()).
		Return(mtsa.RequestCertificateResponse{
			Envelope: mtsa.Envelope{StatusCode: "9102", Message: "Identity verification rejected"},
		}, nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeEnrollmentFailed, res.Error.Code)
}

func (s *ServiceTestSuite) TestWorkflowFailsWhenSigningOTPRejected() {
	s.expectValidCertificate()
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), mtsa.RequestEmailOTPRequest{
			UserID:       s.signer.UserID,
			OTPUsage:     mtsa.OTPUsageDigitalSigning,
			EmailAddress: s.signer.EmailAddress,
		}).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: "9201", Message: "OTP quota exceeded"},
		}, nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeOTPFailed, res.Error.Code)
}

func (s *ServiceTestSuite) TestWorkflowFailsWhenPdfUnreachable() {
	s.expectValidCertificate()

	req := s.signingRequest()
	req.PdfURL = s.pdfServer.URL + "/missing.pdf"
	res := s.service.ProcessSigningWorkflow(s.ctx, req)
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeWorkflowError, res.Error.Code)
}

func (s *ServiceTestSuite) TestWorkflowFailsWhenSigningRejected() {
	s.expectValidCertificate()
	s.expectSigningOTP()
	s.gateway.EXPECT().
		SignPDF(gomock.Any(), gomock.Any()).
		Return(mtsa.SignPDFResponse{
			Envelope: mtsa.Envelope{StatusCode: "9301", Message: "Invalid OTP"},
		}, nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeSigningFailed, res.Error.Code)
}

func (s *ServiceTestSuite) TestWorkflowRejectsInvalidRequest() {
	res := s.service.ProcessSigningWorkflow(s.ctx, model.SigningRequest{PacketID: "pkt-1"})
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeWorkflowError, res.Error.Code)
}

func (s *ServiceTestSuite) TestEnrollUserFailsWhenOTPRejected() {
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), gomock.Any()).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: "9201", Message: "Mailbox rejected"},
		}, nil)

	res := s.service.EnrollUser(s.ctx, model.EnrollmentRequest{
		SignerInfo: s.signer,
		VerificationData: model.VerificationData{
			Status:   "verified",
			Datetime: "2026-08-30T10:00:00Z",
			Verifier: "ekyc-provider",
			Method:   "ekyc_with_liveness",
		},
	})
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeOTPFailed, res.Error.Code)
}

func (s *ServiceTestSuite) TestVerifySignedPdfRejectsBadBase64() {
	_, err := s.service.VerifySignedPdf(s.ctx, "not base64!!")
	s.Require().Error(err)
	s.Assert().ErrorIs(err, model.ErrInvalidParameter)
}

func (s *ServiceTestSuite) TestWorkflowFailureNamesEnrollmentOTPStep() {
	s.gateway.EXPECT().
		GetCertInfo(gomock.Any(), gomock.Any()).
		Return(mtsa.GetCertInfoResponse{
			Envelope: mtsa.Envelope{StatusCode: "9001", Message: "Certificate not found"},
		}, nil)
	s.gateway.EXPECT().
		RequestEmailOTP(gomock.Any(), mtsa.RequestEmailOTPRequest{
			UserID:       s.signer.UserID,
			OTPUsage:     mtsa.OTPUsageNewEnrollment,
			EmailAddress: s.signer.EmailAddress,
		}).
		Return(mtsa.RequestEmailOTPResponse{
			Envelope: mtsa.Envelope{StatusCode: "9201", Message: "Mailbox rejected"},
		}, nil)

	res := s.service.ProcessSigningWorkflow(s.ctx, s.signingRequest())
	s.Require().False(res.Success)
	s.Require().NotNil(res.Error)
	s.Assert().Equal(model.CodeOTPFailed, res.Error.Code)
	s.Assert().Equal("failed to send enrollment OTP", res.Message)
}

func (s *ServiceTestSuite) TestDownloadRejectsOversizedPdf() {
	served := bytes.Repeat([]byte("a"), 2<<20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(served)
	}))
	defer server.Close()

	svc := signing.NewService(s.gateway, s.store, signing.Config{MaxDownloadMB: 1})
	_, err := svc.DownloadPdfAsBase64(s.ctx, server.URL)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "exceeds")
}

func (s *ServiceTestSuite) TestDownloadAcceptsPdfAtLimit() {
	served := bytes.Repeat([]byte("a"), 1<<20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(served)
	}))
	defer server.Close()

	svc := signing.NewService(s.gateway, s.store, signing.Config{MaxDownloadMB: 1})
	encoded, err := svc.DownloadPdfAsBase64(s.ctx, server.URL)
	s.Require().NoError(err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	s.Require().NoError(err)
	s.Assert().Len(decoded, 1<<20)
}
