package referral

import (
	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// ToReferralResponse convierte la entidad a DTO de salida.
func ToReferralResponse(r *entity.Referral) *dto.ReferralResponse {
	if r == nil {
		return nil
	}
	return &dto.ReferralResponse{
		ID:                     r.ID,
		Number:                 r.Number,
		ResidentID:             r.ResidentID,
		Type:                   string(r.Type),
		Status:                 string(r.Status),
		DestinationInstitution: r.DestinationInstitution,
		DestinationAddress:     r.DestinationAddress,
		ReceivingDoctor:        r.ReceivingDoctor,
		Specialty:              r.Specialty,
		ScheduledAt:            r.ScheduledAt,
		DepartureAt:            r.DepartureAt,
		ReturnAt:               r.ReturnAt,
		Reason:                 r.Reason,
		Diagnosis:              r.Diagnosis,
		VitalSigns:             r.VitalSigns,
		Instructions:           r.Instructions,
		AttachedDocs:           r.AttachedDocs,
		RequestedStudies:       r.RequestedStudies,
		ReferringDoctor:        r.ReferringDoctor,
		EscortNurse:            r.EscortNurse,
		EscortRelative:         r.EscortRelative,
		RequiresAmbulance:      r.RequiresAmbulance,
		TransportType:          r.TransportType,
		TransportCompany:       r.TransportCompany,
		FollowUpNotes:          r.FollowUpNotes,
		EstimatedCost:          r.EstimatedCost,
		AdditionalExpenses:     r.AdditionalExpenses,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// ToTrackingEventResponse convierte un hito de seguimiento a DTO.
func ToTrackingEventResponse(e *entity.TrackingEvent) *dto.TrackingEventResponse {
	if e == nil {
		return nil
	}
	return &dto.TrackingEventResponse{
		ID:           e.ID,
		ReferralID:   e.ReferralID,
		Type:         e.Type,
		OccurredAt:   e.OccurredAt,
		Location:     e.Location,
		Description:  e.Description,
		Responsible:  e.Responsible,
		Observations: e.Observations,
		Completed:    e.Completed,
		CreatedAt:    e.CreatedAt,
	}
}

// ToInvolvementResponse convierte una intervención profesional a DTO.
func ToInvolvementResponse(i *entity.ProfessionalInvolvement) *dto.InvolvementResponse {
	if i == nil {
		return nil
	}
	docs := i.Documents
	if docs == nil {
		docs = []string{}
	}
	return &dto.InvolvementResponse{
		ID:             i.ID,
		ReferralID:     i.ReferralID,
		CollaboratorID: i.CollaboratorID,
		Role:           i.Role,
		IntervenedAt:   i.IntervenedAt,
		Description:    i.Description,
		Notes:          i.Notes,
		Documents:      docs,
		CreatedAt:      i.CreatedAt,
	}
}
