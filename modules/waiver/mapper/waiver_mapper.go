package mapper

import (
	"conference-badge-api/modules/waiver/dto"
	"conference-badge-api/modules/waiver/entity"
)

// ToWaiverResponse drops the signature image and requester details.
func ToWaiverResponse(w *entity.Waiver) *dto.WaiverResponse {
	if w == nil {
		return nil
	}
	resp := &dto.WaiverResponse{
		ID:                       w.ID.String(),
		FirstName:                w.FirstName,
		LastName:                 w.LastName,
		Email:                    w.Email,
		DateOfBirth:              w.DateOfBirth.Format("2006-01-02"),
		EmergencyContact:         w.EmergencyContact,
		EmergencyPhone:           w.EmergencyPhone,
		DietaryRestrictions:      nonNil(w.DietaryRestrictions),
		DietaryRestrictionsOther: w.DietaryRestrictionsOther,
		VolunteeringInterests:    nonNil(w.VolunteeringInterests),
		AdditionalNotes:          w.AdditionalNotes,
		WaiverVersion:            w.WaiverVersion,
		SignedAt:                 w.SignedAt,
		PDFGeneratedAt:           w.PDFGeneratedAt,
		CreatedAt:                w.CreatedAt,
	}
	if w.PDFURL != nil {
		resp.PDFURL = *w.PDFURL
	}
	return resp
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
