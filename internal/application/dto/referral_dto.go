package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReferralRequest entrada para crear una remisión. El número lo genera el sistema.
type CreateReferralRequest struct {
	ResidentID             string           `json:"residente_id"`
	Type                   string           `json:"tipo"`
	DestinationInstitution string           `json:"institucion_destino"`
	DestinationAddress     string           `json:"direccion_destino"`
	ReceivingDoctor        string           `json:"medico_receptor,omitempty"`
	Specialty              string           `json:"especialidad,omitempty"`
	ScheduledAt            time.Time        `json:"fecha_programada"`
	Reason                 string           `json:"motivo"`
	Diagnosis              string           `json:"diagnostico_envio"`
	VitalSigns             string           `json:"signos_vitales,omitempty"`
	Instructions           string           `json:"indicaciones,omitempty"`
	AttachedDocs           string           `json:"documentos_adjuntos,omitempty"`
	RequestedStudies       string           `json:"estudios_solicitados,omitempty"`
	ReferringDoctor        string           `json:"medico_remitente"`
	EscortNurse            string           `json:"enfermero_acompanante,omitempty"`
	EscortRelative         string           `json:"familiar_acompanante,omitempty"`
	RequiresAmbulance      bool             `json:"requiere_ambulancia"`
	TransportType          string           `json:"tipo_transporte,omitempty"`
	TransportCompany       string           `json:"empresa_transporte,omitempty"`
	EstimatedCost          *decimal.Decimal `json:"costo_estimado,omitempty"`
}

// UpdateReferralRequest actualización parcial: los campos nil no se tocan.
// No se valida coherencia entre fechas (retorno antes de salida se acepta).
type UpdateReferralRequest struct {
	Status                 *string          `json:"estado"`
	DestinationInstitution *string          `json:"institucion_destino"`
	DestinationAddress     *string          `json:"direccion_destino"`
	ReceivingDoctor        *string          `json:"medico_receptor"`
	Specialty              *string          `json:"especialidad"`
	ScheduledAt            *time.Time       `json:"fecha_programada"`
	DepartureAt            *time.Time       `json:"fecha_salida"`
	ReturnAt               *time.Time       `json:"fecha_retorno"`
	VitalSigns             *string          `json:"signos_vitales"`
	Instructions           *string          `json:"indicaciones"`
	EscortNurse            *string          `json:"enfermero_acompanante"`
	EscortRelative         *string          `json:"familiar_acompanante"`
	RequiresAmbulance      *bool            `json:"requiere_ambulancia"`
	TransportType          *string          `json:"tipo_transporte"`
	TransportCompany       *string          `json:"empresa_transporte"`
	FollowUpNotes          *string          `json:"notas_seguimiento"`
	EstimatedCost          *decimal.Decimal `json:"costo_estimado"`
	AdditionalExpenses     *string          `json:"gastos_adicionales"`
}

// ReferralResponse salida de una remisión.
type ReferralResponse struct {
	ID                     string           `json:"id"`
	Number                 string           `json:"numero_remision"`
	ResidentID             string           `json:"residente_id"`
	Type                   string           `json:"tipo"`
	Status                 string           `json:"estado"`
	DestinationInstitution string           `json:"institucion_destino"`
	DestinationAddress     string           `json:"direccion_destino"`
	ReceivingDoctor        string           `json:"medico_receptor,omitempty"`
	Specialty              string           `json:"especialidad,omitempty"`
	ScheduledAt            time.Time        `json:"fecha_programada"`
	DepartureAt            *time.Time       `json:"fecha_salida,omitempty"`
	ReturnAt               *time.Time       `json:"fecha_retorno,omitempty"`
	Reason                 string           `json:"motivo"`
	Diagnosis              string           `json:"diagnostico_envio"`
	VitalSigns             string           `json:"signos_vitales,omitempty"`
	Instructions           string           `json:"indicaciones,omitempty"`
	AttachedDocs           string           `json:"documentos_adjuntos,omitempty"`
	RequestedStudies       string           `json:"estudios_solicitados,omitempty"`
	ReferringDoctor        string           `json:"medico_remitente"`
	EscortNurse            string           `json:"enfermero_acompanante,omitempty"`
	EscortRelative         string           `json:"familiar_acompanante,omitempty"`
	RequiresAmbulance      bool             `json:"requiere_ambulancia"`
	TransportType          string           `json:"tipo_transporte,omitempty"`
	TransportCompany       string           `json:"empresa_transporte,omitempty"`
	FollowUpNotes          string           `json:"notas_seguimiento,omitempty"`
	EstimatedCost          *decimal.Decimal `json:"costo_estimado,omitempty"`
	AdditionalExpenses     string           `json:"gastos_adicionales,omitempty"`
	CreatedAt              time.Time        `json:"fecha_creacion"`
	UpdatedAt              time.Time        `json:"fecha_actualizacion"`
}

// ReferralListResponse lista paginada de remisiones.
type ReferralListResponse struct {
	Items []ReferralResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AddTrackingEventRequest entrada para registrar un hito de seguimiento.
type AddTrackingEventRequest struct {
	Type         string    `json:"tipo_evento"`
	OccurredAt   time.Time `json:"fecha_hora"`
	Location     string    `json:"ubicacion,omitempty"`
	Description  string    `json:"descripcion,omitempty"`
	Responsible  string    `json:"responsable,omitempty"`
	Observations string    `json:"observaciones,omitempty"`
	Completed    bool      `json:"completado"`
}

// TrackingEventResponse salida de un hito de seguimiento.
type TrackingEventResponse struct {
	ID           string    `json:"id"`
	ReferralID   string    `json:"remision_id"`
	Type         string    `json:"tipo_evento"`
	OccurredAt   time.Time `json:"fecha_hora"`
	Location     string    `json:"ubicacion,omitempty"`
	Description  string    `json:"descripcion,omitempty"`
	Responsible  string    `json:"responsable,omitempty"`
	Observations string    `json:"observaciones,omitempty"`
	Completed    bool      `json:"completado"`
	CreatedAt    time.Time `json:"fecha_registro"`
}

// AddInvolvementRequest entrada para registrar la intervención de un colaborador.
type AddInvolvementRequest struct {
	CollaboratorID string    `json:"colaborador_id"`
	Role           string    `json:"rol"`
	IntervenedAt   time.Time `json:"fecha_intervencion"`
	Description    string    `json:"descripcion_intervencion,omitempty"`
	Notes          string    `json:"notas,omitempty"`
	Documents      []string  `json:"documentos_generados,omitempty"`
}

// InvolvementResponse salida de una intervención profesional.
type InvolvementResponse struct {
	ID             string    `json:"id"`
	ReferralID     string    `json:"remision_id"`
	CollaboratorID string    `json:"colaborador_id"`
	Role           string    `json:"rol"`
	IntervenedAt   time.Time `json:"fecha_intervencion"`
	Description    string    `json:"descripcion_intervencion,omitempty"`
	Notes          string    `json:"notas,omitempty"`
	Documents      []string  `json:"documentos_generados"`
	CreatedAt      time.Time `json:"fecha_registro"`
}
