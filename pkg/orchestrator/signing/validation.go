package signing

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
)

func ValidateSigningRequest(req model.SigningRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.PacketID, validation.Required),
		validation.Field(&req.PdfURL, validation.Required, is.URL),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return validateSignerInfo(req.SignerInfo)
}

func ValidateEnrollmentRequest(req model.EnrollmentRequest) error {
	if err := validateSignerInfo(req.SignerInfo); err != nil {
		return err
	}
	data := req.VerificationData
	err := validation.ValidateStruct(&data,
		validation.Field(&data.Status, validation.Required),
		validation.Field(&data.Datetime, validation.Required),
		validation.Field(&data.Verifier, validation.Required),
		validation.Field(&data.Method, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("verificationData: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func validateSignerInfo(signer model.SignerInfo) error {
	err := validation.ValidateStruct(&signer,
		validation.Field(&signer.UserID, validation.Required),
		validation.Field(&signer.FullName, validation.Required),
		validation.Field(&signer.EmailAddress, validation.Required, is.EmailFormat),
	)
	if err != nil {
		return fmt.Errorf("signerInfo: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}
