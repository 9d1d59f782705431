package repository

import (
	"context"
	"database/sql"
	"errors"

	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/waiver/entity"

	"github.com/google/uuid"
)

type WaiverRepository struct {
	db database.IDatabase
}

func NewWaiverRepository(db database.IDatabase) *WaiverRepository {
	return &WaiverRepository{db: db}
}

const waiverColumns = `
	id, first_name, last_name, email, date_of_birth, emergency_contact, emergency_phone,
	dietary_restrictions, dietary_restrictions_other, volunteering_interests, additional_notes,
	signature_data, waiver_version, signed_at, ip_address, user_agent,
	pdf_url, pdf_path, pdf_generated_at, created_at`

func (r *WaiverRepository) Create(ctx context.Context, w *entity.Waiver) error {
	query := `
		INSERT INTO waivers (` + waiverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	err := r.db.ExecContext(ctx, query,
		w.ID, w.FirstName, w.LastName, w.Email, w.DateOfBirth, w.EmergencyContact, w.EmergencyPhone,
		w.DietaryRestrictions, w.DietaryRestrictionsOther, w.VolunteeringInterests, w.AdditionalNotes,
		w.SignatureData, w.WaiverVersion, w.SignedAt, w.IPAddress, w.UserAgent,
		w.PDFURL, w.PDFPath, w.PDFGeneratedAt, w.CreatedAt,
	)
	if err != nil {
		logger.Error("WaiverRepository:Create:Error", "waiver_id", w.ID, "error", err)
		return err
	}
	return nil
}

// GetByID returns nil without error when the waiver does not exist.
func (r *WaiverRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Waiver, error) {
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE id = $1`

	var waiver entity.Waiver
	if err := r.db.GetContext(ctx, &waiver, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("WaiverRepository:GetByID:Error", "waiver_id", id, "error", err)
		return nil, err
	}
	return &waiver, nil
}
