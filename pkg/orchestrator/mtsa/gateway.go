package mtsa

import (
	"context"
	"encoding/xml"

	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/sirupsen/logrus"
)

// StatusOK is the only MTSA status code that means success. Anything else
// is a business rejection carried back to the caller as-is; only
// transport-level failures are retried.
const StatusOK = "0000"

type OTPUsage string

const (
	OTPUsageDigitalSigning OTPUsage = "DS"
	OTPUsageNewEnrollment  OTPUsage = "NU"
)

type CertStatus string

const (
	CertStatusValid   CertStatus = "Valid"
	CertStatusInvalid CertStatus = "Invalid"
	CertStatusRevoked CertStatus = "Revoked"
	CertStatusUnknown CertStatus = "Unknown"
)

type RevokeReason string

const (
	RevokeReasonKeyCompromise        RevokeReason = "keyCompromise"
	RevokeReasonCACompromise         RevokeReason = "CACompromise"
	RevokeReasonAffiliationChanged   RevokeReason = "affiliationChanged"
	RevokeReasonSuperseded           RevokeReason = "superseded"
	RevokeReasonCessationOfOperation RevokeReason = "cessationOfOperation"
)

// Gateway is the MTSA certificate-authority client. It is constructed once
// at startup and injected into the signing service; tests substitute a
// gomock implementation.
type Gateway interface {
	RequestEmailOTP(ctx context.Context, req RequestEmailOTPRequest) (RequestEmailOTPResponse, error)
	RequestCertificate(ctx context.Context, req RequestCertificateRequest) (RequestCertificateResponse, error)
	GetCertInfo(ctx context.Context, req GetCertInfoRequest) (GetCertInfoResponse, error)
	SignPDF(ctx context.Context, req SignPDFRequest) (SignPDFResponse, error)
	VerifyPDFSignature(ctx context.Context, req VerifyPDFSignatureRequest) (VerifyPDFSignatureResponse, error)
	RequestRevokeCert(ctx context.Context, req RequestRevokeCertRequest) (RequestRevokeCertResponse, error)

	// Health verifies the service descriptor is reachable and enumerates at
	// least one operation. Liveness only, not correctness.
	Health(ctx context.Context) error
}

// Envelope carries the fields common to every MTSA response.
type Envelope struct {
	StatusCode string `xml:"statusCode" json:"statusCode"`
	Message    string `xml:"message" json:"message"`
}

func (e Envelope) OK() bool {
	return e.StatusCode == StatusOK
}

type RequestEmailOTPRequest struct {
	XMLName      xml.Name `xml:"RequestEmailOTP" json:"-"`
	UserID       string   `xml:"UserID"`
	OTPUsage     OTPUsage `xml:"OTPUsage"`
	EmailAddress string   `xml:"EmailAddress,omitempty"`
}

type RequestEmailOTPResponse struct {
	Envelope
	OTPSent bool `xml:"otpSent" json:"otpSent"`
}

// VerificationRecord is the flattened identity-proofing record MTSA expects
// on enrollment and revocation.
type VerificationRecord struct {
	VerifyDatetime string `xml:"verifyDatetime"`
	VerifyMethod   string `xml:"verifyMethod"`
	VerifyStatus   string `xml:"verifyStatus"`
	VerifyVerifier string `xml:"verifyVerifier"`
}

func NewVerificationRecord(v model.VerificationData) VerificationRecord {
	return VerificationRecord{
		VerifyDatetime: v.Datetime,
		VerifyMethod:   v.Method,
		VerifyStatus:   v.Status,
		VerifyVerifier: v.Verifier,
	}
}

type RequestCertificateRequest struct {
	XMLName          xml.Name           `xml:"RequestCertificate" json:"-"`
	UserID           string             `xml:"UserID"`
	FullName         string             `xml:"FullName"`
	EmailAddress     string             `xml:"EmailAddress"`
	MobileNo         string             `xml:"MobileNo"`
	Nationality      string             `xml:"Nationality"`
	UserType         model.UserType     `xml:"UserType"`
	IDType           string             `xml:"IDType"`
	AuthFactor       string             `xml:"AuthFactor"`
	VerificationData VerificationRecord `xml:"VerificationData"`
	NRICFront        string             `xml:"NRICFront,omitempty"`
	NRICBack         string             `xml:"NRICBack,omitempty"`
	PassportImage    string             `xml:"PassportImage,omitempty"`
	SelfieImage      string             `xml:"SelfieImage,omitempty"`
}

type RequestCertificateResponse struct {
	Envelope
	CertSerialNo string `xml:"certSerialNo" json:"certSerialNo"`
	ValidFrom    string `xml:"validFrom" json:"validFrom"`
	ValidTo      string `xml:"validTo" json:"validTo"`
	UserCert     string `xml:"userCert" json:"userCert"`
}

type GetCertInfoRequest struct {
	XMLName xml.Name `xml:"GetCertInfo" json:"-"`
	UserID  string   `xml:"UserID"`
}

type GetCertInfoResponse struct {
	Envelope
	CertStatus   CertStatus `xml:"certStatus" json:"certStatus"`
	ValidFrom    string     `xml:"validFrom" json:"validFrom"`
	ValidTo      string     `xml:"validTo" json:"validTo"`
	CertSerialNo string     `xml:"certSerialNo" json:"certSerialNo"`
	Issuer       string     `xml:"issuer" json:"issuer"`
	Subject      string     `xml:"subject" json:"subject"`
	UserCert     string     `xml:"userCert" json:"userCert"`
}

// CertificateInfo converts the lookup result into the API-facing shape.
func (r GetCertInfoResponse) CertificateInfo() *model.CertificateInfo {
	return &model.CertificateInfo{
		SerialNo:  r.CertSerialNo,
		ValidFrom: r.ValidFrom,
		ValidTo:   r.ValidTo,
		Status:    string(r.CertStatus),
		Issuer:    r.Issuer,
		Subject:   r.Subject,
	}
}

type SignatureInfo struct {
	PdfInBase64      string                      `xml:"pdfInBase64"`
	Visibility       bool                        `xml:"visibility"`
	Coordinates      *model.SignatureCoordinates `xml:"coordinates,omitempty"`
	SigImageInBase64 string                      `xml:"sigImageInBase64,omitempty"`
}

// FieldEntry is one templated text field MTSA stamps into the PDF while
// signing.
type FieldEntry struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type SignPDFRequest struct {
	XMLName           xml.Name      `xml:"SignPDF" json:"-"`
	UserID            string        `xml:"UserID"`
	FullName          string        `xml:"FullName"`
	AuthFactor        string        `xml:"AuthFactor"`
	SignatureInfo     SignatureInfo `xml:"SignatureInfo"`
	FieldListToUpdate []FieldEntry  `xml:"FieldListToUpdate>field,omitempty"`
}

type SignPDFResponse struct {
	Envelope
	SignedPdfInBase64 string `xml:"signedPdfInBase64" json:"-"`
	UserCert          string `xml:"userCert" json:"userCert"`
}

type VerifyPDFSignatureRequest struct {
	XMLName           xml.Name `xml:"VerifyPDFSignature" json:"-"`
	SignedPdfInBase64 string   `xml:"SignedPdfInBase64"`
}

type SignatureDetail struct {
	SignerName string `xml:"signerName" json:"signerName"`
	SignedDate string `xml:"signedDate" json:"signedDate"`
	IsValid    bool   `xml:"isValid" json:"isValid"`
	CertStatus string `xml:"certStatus" json:"certStatus"`
}

type VerifyPDFSignatureResponse struct {
	Envelope
	TotalSignatureInPdf int               `xml:"totalSignatureInPdf" json:"totalSignatureInPdf"`
	SignatureDetails    []SignatureDetail `xml:"signatureDetails" json:"signatureDetails"`
}

type RequestRevokeCertRequest struct {
	XMLName          xml.Name           `xml:"RequestRevokeCert" json:"-"`
	UserID           string             `xml:"UserID"`
	CertSerialNo     string             `xml:"CertSerialNo"`
	RevokeReason     RevokeReason       `xml:"RevokeReason"`
	RevokeBy         string             `xml:"RevokeBy"`
	AuthFactor       string             `xml:"AuthFactor"`
	VerificationData VerificationRecord `xml:"VerificationData"`
}

type RequestRevokeCertResponse struct {
	Envelope
	Revoked bool `xml:"revoked" json:"revoked"`
}

// Redacted log views. AuthFactor (the OTP) and every base64 payload never
// reach a log line.

func (r RequestEmailOTPRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"user_id":   r.UserID,
		"otp_usage": string(r.OTPUsage),
		"has_email": r.EmailAddress != "",
	}
}

func (r RequestCertificateRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"user_id":     r.UserID,
		"user_type":   int(r.UserType),
		"nationality": r.Nationality,
		"auth_factor": model.Redacted,
	}
}

func (r GetCertInfoRequest) LogFields() logrus.Fields {
	return logrus.Fields{"user_id": r.UserID}
}

func (r SignPDFRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"user_id":           r.UserID,
		"visibility":        r.SignatureInfo.Visibility,
		"has_sig_image":     r.SignatureInfo.SigImageInBase64 != "",
		"field_updates":     len(r.FieldListToUpdate),
		"auth_factor":       model.Redacted,
		"pdf_in_base64":     model.Redacted,
		"sig_img_in_base64": model.Redacted,
	}
}

func (r VerifyPDFSignatureRequest) LogFields() logrus.Fields {
	return logrus.Fields{"signed_pdf_in_base64": model.Redacted}
}

func (r RequestRevokeCertRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"user_id":        r.UserID,
		"cert_serial_no": r.CertSerialNo,
		"revoke_reason":  string(r.RevokeReason),
		"revoke_by":      r.RevokeBy,
		"auth_factor":    model.Redacted,
	}
}
