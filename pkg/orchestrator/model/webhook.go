package model

type WebhookEventType string

const (
	WebhookEventSignerSubmitted WebhookEventType = "signer_submitted"
	WebhookEventPacketCompleted WebhookEventType = "packet_completed"
)

// WebhookPayload is the DocuSeal event shape posted to the ingress.
type WebhookPayload struct {
	EventType WebhookEventType `json:"event_type"`
	Data      *WebhookData     `json:"data"`
}

type WebhookData struct {
	ID             string `json:"id"`
	PacketID       string `json:"packet_id,omitempty"`
	DocumentID     string `json:"document_id,omitempty"`
	TemplateID     string `json:"template_id,omitempty"`
	SignerID       string `json:"signer_id,omitempty"`
	SignerName     string `json:"signer_name,omitempty"`
	SignerEmail    string `json:"signer_email,omitempty"`
	SignerNRIC     string `json:"signer_nric,omitempty"`
	SignerPassport string `json:"signer_passport,omitempty"`
	SignerPhone    string `json:"signer_phone,omitempty"`
	UnsignedPdfURL string `json:"unsigned_pdf_url,omitempty"`
	Status         string `json:"status,omitempty"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// SignerInfo builds the MTSA signer identity from a webhook event. NRIC
// wins over passport over the opaque signer id, matching DocuSeal's field
// precedence.
func (d *WebhookData) SignerInfo() SignerInfo {
	userID := d.SignerNRIC
	if userID == "" {
		userID = d.SignerPassport
	}
	if userID == "" {
		userID = d.SignerID
	}
	return SignerInfo{
		UserID:       userID,
		FullName:     d.SignerName,
		EmailAddress: d.SignerEmail,
		MobileNo:     d.SignerPhone,
		Nationality:  "MY",
		UserType:     UserTypeExternalBorrower,
	}
}

// Packet returns the storage/workflow grouping key of the event.
func (d *WebhookData) Packet() string {
	if d.PacketID != "" {
		return d.PacketID
	}
	return d.ID
}
