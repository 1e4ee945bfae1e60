package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralStatus es el estado de una remisión.
type ReferralStatus string

const (
	ReferralStatusScheduled  ReferralStatus = "programada"
	ReferralStatusInProgress ReferralStatus = "en_proceso"
	ReferralStatusCompleted  ReferralStatus = "completada"
	ReferralStatusCancelled  ReferralStatus = "cancelada"
)

// Valid indica si s es un estado conocido.
func (s ReferralStatus) Valid() bool {
	switch s {
	case ReferralStatusScheduled, ReferralStatusInProgress, ReferralStatusCompleted, ReferralStatusCancelled:
		return true
	}
	return false
}

// Terminal indica si desde s ya no hay transiciones en el flujo normal.
func (s ReferralStatus) Terminal() bool {
	return s == ReferralStatusCompleted || s == ReferralStatusCancelled
}

// ReferralType es el motivo general de traslado.
type ReferralType string

const (
	ReferralTypeConsultation    ReferralType = "consulta"
	ReferralTypeEmergency       ReferralType = "emergencia"
	ReferralTypeHospitalization ReferralType = "hospitalizacion"
	ReferralTypeStudies         ReferralType = "estudios"
	ReferralTypeTransfer        ReferralType = "traslado"
)

// Valid indica si t es un tipo conocido.
func (t ReferralType) Valid() bool {
	switch t {
	case ReferralTypeConsultation, ReferralTypeEmergency, ReferralTypeHospitalization,
		ReferralTypeStudies, ReferralTypeTransfer:
		return true
	}
	return false
}

// Referral es el expediente de traslado de un residente a una institución externa.
// Es dueña de sus TrackingEvent y ProfessionalInvolvement (se borran en cascada).
type Referral struct {
	ID         string
	Number     string // REM-YYYYMMDD-NNNN, único
	ResidentID string
	Type       ReferralType
	Status     ReferralStatus

	// Destino
	DestinationInstitution string
	DestinationAddress     string
	ReceivingDoctor        string
	Specialty              string

	// Fechas
	ScheduledAt time.Time
	DepartureAt *time.Time
	ReturnAt    *time.Time

	// Información médica
	Reason           string
	Diagnosis        string
	VitalSigns       string
	Instructions     string
	AttachedDocs     string
	RequestedStudies string

	// Personal responsable
	ReferringDoctor string
	EscortNurse     string
	EscortRelative  string

	// Transporte
	RequiresAmbulance bool
	TransportType     string
	TransportCompany  string

	FollowUpNotes      string
	EstimatedCost      *decimal.Decimal
	AdditionalExpenses string

	CreatedAt time.Time
	UpdatedAt time.Time
}
