package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SignatureData is stored as jsonb alongside the waiver row.
type SignatureData struct {
	Image      string    `json:"image"`
	DocumentID string    `json:"document_id"`
	SignedAt   time.Time `json:"signed_at"`
}

func (s SignatureData) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SignatureData) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

type Waiver struct {
	ID                       uuid.UUID      `db:"id" json:"id"`
	FirstName                string         `db:"first_name" json:"first_name"`
	LastName                 string         `db:"last_name" json:"last_name"`
	Email                    string         `db:"email" json:"email"`
	DateOfBirth              time.Time      `db:"date_of_birth" json:"date_of_birth"`
	EmergencyContact         string         `db:"emergency_contact" json:"emergency_contact"`
	EmergencyPhone           string         `db:"emergency_phone" json:"emergency_phone"`
	DietaryRestrictions      pq.StringArray `db:"dietary_restrictions" json:"dietary_restrictions"`
	DietaryRestrictionsOther string         `db:"dietary_restrictions_other" json:"dietary_restrictions_other"`
	VolunteeringInterests    pq.StringArray `db:"volunteering_interests" json:"volunteering_interests"`
	AdditionalNotes          string         `db:"additional_notes" json:"additional_notes"`
	SignatureData            SignatureData  `db:"signature_data" json:"-"`
	WaiverVersion            string         `db:"waiver_version" json:"waiver_version"`
	SignedAt                 time.Time      `db:"signed_at" json:"signed_at"`
	IPAddress                *string        `db:"ip_address" json:"-"`
	UserAgent                *string        `db:"user_agent" json:"-"`
	PDFURL                   *string        `db:"pdf_url" json:"pdf_url,omitempty"`
	PDFPath                  *string        `db:"pdf_path" json:"-"`
	PDFGeneratedAt           *time.Time     `db:"pdf_generated_at" json:"pdf_generated_at,omitempty"`
	CreatedAt                time.Time      `db:"created_at" json:"created_at"`
}

func (w *Waiver) FullName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// SplitName puts the first word in first and everything after it in last.
func SplitName(fullName string) (first, last string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
