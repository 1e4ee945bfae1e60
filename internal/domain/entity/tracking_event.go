package entity

import "time"

// Tipos de evento de seguimiento.
const (
	EventDeparture    = "salida"
	EventArrival      = "llegada"
	EventConsultation = "consulta"
	EventProcedure    = "procedimiento"
	EventIncident     = "incidente"
	EventReturn       = "retorno"
)

// ValidEventType indica si t es un tipo de evento conocido.
func ValidEventType(t string) bool {
	switch t {
	case EventDeparture, EventArrival, EventConsultation, EventProcedure, EventIncident, EventReturn:
		return true
	}
	return false
}

// TrackingEvent es un hito dentro de una remisión. OccurredAt lo indica quien registra y no
// tiene por qué ser monótono: el orden válido es Sequence (orden de inserción).
type TrackingEvent struct {
	ID           string
	ReferralID   string
	Sequence     int64
	Type         string
	OccurredAt   time.Time
	Location     string
	Description  string
	Responsible  string
	Observations string
	Completed    bool
	CreatedAt    time.Time
}
