package model

import (
	"github.com/sirupsen/logrus"
)

// Redacted replaces sensitive values in log views. Redaction happens in the
// LogFields() views below, never by key matching at the logging boundary,
// so internal code can pass full payloads between components freely.
const Redacted = "[REDACTED]"

type UserType int

const (
	UserTypeExternalBorrower  UserType = 1
	UserTypeInternalSignatory UserType = 2
)

// SignerInfo identifies a signer towards MTSA. UserID is the NRIC or
// passport number and is the certificate lookup key on the CA side.
// Reconstructed per request, never persisted.
type SignerInfo struct {
	UserID       string   `json:"userId"`
	FullName     string   `json:"fullName"`
	EmailAddress string   `json:"emailAddress"`
	MobileNo     string   `json:"mobileNo,omitempty"`
	Nationality  string   `json:"nationality,omitempty"`
	UserType     UserType `json:"userType"`
}

// VerificationEvidence carries identity-proofing images. Always sensitive.
type VerificationEvidence struct {
	NRICFront     string `json:"nricFront,omitempty"`
	NRICBack      string `json:"nricBack,omitempty"`
	PassportImage string `json:"passportImage,omitempty"`
	SelfieImage   string `json:"selfieImage,omitempty"`
	LOADocument   string `json:"loaDocument,omitempty"`
}

type VerificationData struct {
	Status   string                `json:"status"`
	Datetime string                `json:"datetime"`
	Verifier string                `json:"verifier"`
	Method   string                `json:"method"`
	Evidence *VerificationEvidence `json:"evidence,omitempty"`
}

// SignatureCoordinates is the page-relative placement for a visible
// signature. Absence means invisible signing.
type SignatureCoordinates struct {
	PageNo int `json:"pageNo" yaml:"page_no" xml:"pageNo"`
	X1     int `json:"x1" yaml:"x1" xml:"x1"`
	Y1     int `json:"y1" yaml:"y1" xml:"y1"`
	X2     int `json:"x2" yaml:"x2" xml:"x2"`
	Y2     int `json:"y2" yaml:"y2" xml:"y2"`
}

type FieldUpdates map[string]string

type CertificateInfo struct {
	SerialNo  string `json:"serialNo"`
	ValidFrom string `json:"validFrom"`
	ValidTo   string `json:"validTo"`
	Status    string `json:"status,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

type SigningRequest struct {
	PacketID       string                `json:"packetId"`
	DocumentID     string                `json:"documentId,omitempty"`
	TemplateID     string                `json:"templateId,omitempty"`
	SignerInfo     SignerInfo            `json:"signerInfo"`
	PdfURL         string                `json:"pdfUrl"`
	OTP            string                `json:"otp,omitempty"`
	Coordinates    *SignatureCoordinates `json:"coordinates,omitempty"`
	SignatureImage string                `json:"signatureImage,omitempty"`
	FieldUpdates   FieldUpdates          `json:"fieldUpdates,omitempty"`
}

type SigningResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	SignedPdfPath   string           `json:"signedPdfPath,omitempty"`
	CertificateInfo *CertificateInfo `json:"certificateInfo,omitempty"`
	Error           *WorkflowError   `json:"error,omitempty"`
}

type EnrollmentRequest struct {
	SignerInfo       SignerInfo       `json:"signerInfo"`
	VerificationData VerificationData `json:"verificationData"`
	OTP              string           `json:"otp,omitempty"`
}

type EnrollmentResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	CertificateInfo *CertificateInfo `json:"certificateInfo,omitempty"`
	Error           *WorkflowError   `json:"error,omitempty"`
}

func (s SignerInfo) LogFields() logrus.Fields {
	return logrus.Fields{
		"signer_id": s.UserID,
		"user_type": int(s.UserType),
	}
}

func (r SigningRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"packet_id":           r.PacketID,
		"document_id":         r.DocumentID,
		"template_id":         r.TemplateID,
		"signer_id":           r.SignerInfo.UserID,
		"has_otp":             r.OTP != "",
		"has_coordinates":     r.Coordinates != nil,
		"has_signature_image": r.SignatureImage != "",
	}
}

func (r EnrollmentRequest) LogFields() logrus.Fields {
	return logrus.Fields{
		"signer_id":     r.SignerInfo.UserID,
		"verify_method": r.VerificationData.Method,
		"verify_status": r.VerificationData.Status,
		"has_evidence":  r.VerificationData.Evidence != nil,
		"has_otp":       r.OTP != "",
	}
}
