package model_test

import (
	"testing"

	"github.com/kreditmy/signing-orchestrator/pkg/orchestrator/model"
	"github.com/stretchr/testify/assert"
)

func TestWebhookDataSignerInfo(t *testing.T) {
	data := model.WebhookData{
		SignerName:     "Aminah binti Hassan",
		SignerEmail:    "aminah@example.com",
		SignerNRIC:     "900101011234",
		SignerPassport: "A12345678",
		SignerID:       "ds-signer-1",
	}

	signer := data.SignerInfo()
	assert.Equal(t, "900101011234", signer.UserID)
	assert.Equal(t, "MY", signer.Nationality)
	assert.Equal(t, model.UserTypeExternalBorrower, signer.UserType)

	data.SignerNRIC = ""
	assert.Equal(t, "A12345678", data.SignerInfo().UserID)

	data.SignerPassport = ""
	assert.Equal(t, "ds-signer-1", data.SignerInfo().UserID)
}

func TestWebhookDataPacket(t *testing.T) {
	data := model.WebhookData{ID: "sub-1"}
	assert.Equal(t, "sub-1", data.Packet())

	data.PacketID = "pkt-1"
	assert.Equal(t, "pkt-1", data.Packet())
}
