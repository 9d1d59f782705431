package dto

import "time"

type SubmitWaiverRequest struct {
	FullName                 string   `json:"fullName"`
	Email                    string   `json:"email"`
	DateOfBirth              string   `json:"dateOfBirth"`
	EmergencyContact         string   `json:"emergencyContact"`
	EmergencyPhone           string   `json:"emergencyPhone"`
	DietaryRestrictions      []string `json:"dietaryRestrictions"`
	DietaryRestrictionsOther string   `json:"dietaryRestrictionsOther"`
	VolunteeringInterests    []string `json:"volunteeringInterests"`
	AdditionalNotes          string   `json:"additionalNotes"`
	SignatureImage           string   `json:"signatureImage"`
	WaiverVersion            string   `json:"waiverVersion"`
	SignedAt                 string   `json:"signedAt"`
	SessionID                string   `json:"sessionId"`
}

// RequestMeta carries requester details captured by the HTTP layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type SubmitWaiverResponse struct {
	Success        bool   `json:"success"`
	PDFURL         string `json:"pdfUrl"`
	WaiverID       string `json:"waiverId"`
	DocumentID     string `json:"documentId"`
	EmailSent      bool   `json:"emailSent"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
}

type WaiverResponse struct {
	ID                       string     `json:"id"`
	FirstName                string     `json:"firstName"`
	LastName                 string     `json:"lastName"`
	Email                    string     `json:"email"`
	DateOfBirth              string     `json:"dateOfBirth"`
	EmergencyContact         string     `json:"emergencyContact"`
	EmergencyPhone           string     `json:"emergencyPhone"`
	DietaryRestrictions      []string   `json:"dietaryRestrictions"`
	DietaryRestrictionsOther string     `json:"dietaryRestrictionsOther,omitempty"`
	VolunteeringInterests    []string   `json:"volunteeringInterests"`
	AdditionalNotes          string     `json:"additionalNotes,omitempty"`
	WaiverVersion            string     `json:"waiverVersion"`
	SignedAt                 time.Time  `json:"signedAt"`
	PDFURL                   string     `json:"pdfUrl,omitempty"`
	PDFGeneratedAt           *time.Time `json:"pdfGeneratedAt,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
}

type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CleanupPayload struct {
	Path string `json:"path"`
}
