package mtsa

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
)

func ValidateRequestEmailOTPRequest(req RequestEmailOTPRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.OTPUsage, validation.Required, validation.In(OTPUsageDigitalSigning, OTPUsageNewEnrollment)),
		// Enrollment OTPs go to an address not yet on file with the CA.
		validation.Field(&req.EmailAddress,
			validation.When(req.OTPUsage == OTPUsageNewEnrollment, validation.Required, is.EmailFormat)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateRequestCertificateRequest(req RequestCertificateRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.EmailAddress, validation.Required, is.EmailFormat),
		validation.Field(&req.MobileNo, validation.Required),
		validation.Field(&req.Nationality, validation.Required),
		validation.Field(&req.UserType, validation.Required,
			validation.In(model.UserTypeExternalBorrower, model.UserTypeInternalSignatory)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateGetCertInfoRequest(req GetCertInfoRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateSignPDFRequest(req SignPDFRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FullName, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	if req.SignatureInfo.PdfInBase64 == "" {
		return fmt.Errorf("SignatureInfo.pdfInBase64: cannot be blank%w", model.ErrInvalidParameter)
	}
	if req.SignatureInfo.Visibility && req.SignatureInfo.Coordinates == nil {
		return fmt.Errorf("SignatureInfo.coordinates: required for a visible signature%w", model.ErrInvalidParameter)
	}
	return nil
}

func ValidateVerifyPDFSignatureRequest(req VerifyPDFSignatureRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.SignedPdfInBase64, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateRequestRevokeCertRequest(req RequestRevokeCertRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.CertSerialNo, validation.Required),
		validation.Field(&req.RevokeReason, validation.Required, validation.In(
			RevokeReasonKeyCompromise,
			RevokeReasonCACompromise,
			RevokeReasonAffiliationChanged,
			RevokeReasonSuperseded,
			RevokeReasonCessationOfOperation,
		)),
		validation.Field(&req.RevokeBy, validation.Required, validation.In("Admin", "Self")),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}
