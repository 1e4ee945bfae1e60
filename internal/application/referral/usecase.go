package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	rules "github.com/jhoicas/residencia-api/internal/domain/referral"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

// DefaultMaxNumberAttempts intentos de creación ante colisión del número de remisión.
const DefaultMaxNumberAttempts = 5

// Options parámetros del caso de uso.
type Options struct {
	Policy            rules.TransitionPolicy // nil = PermissivePolicy
	MaxNumberAttempts int                    // <= 0 = DefaultMaxNumberAttempts
}

// UseCase administra el ciclo de vida de las remisiones, su seguimiento y la trazabilidad profesional.
type UseCase struct {
	txRunner    TxRunner
	reads       Repos
	policy      rules.TransitionPolicy
	maxAttempts int
	publisher   ports.EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. reads son los repositorios sobre el pool para consultas.
func NewUseCase(txRunner TxRunner, reads Repos, publisher ports.EventPublisher, log *logger.Logger, opts Options) *UseCase {
	if opts.Policy == nil {
		opts.Policy = rules.PermissivePolicy{}
	}
	if opts.MaxNumberAttempts <= 0 {
		opts.MaxNumberAttempts = DefaultMaxNumberAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:    txRunner,
		reads:       reads,
		policy:      opts.Policy,
		maxAttempts: opts.MaxNumberAttempts,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// CreateReferral crea la remisión en estado programada con un número REM-AAAAMMDD-NNNN.
// La secuencia se calcula como la mayor emitida en el día + 1; la restricción UNIQUE del
// almacenamiento decide. Ante colisión se reintenta la transacción completa hasta maxAttempts
// veces y luego se devuelve domain.ErrDuplicateReferralNumber.
func (uc *UseCase) CreateReferral(ctx context.Context, in dto.CreateReferralRequest) (*dto.ReferralResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var (
		created *entity.Referral
		err     error
	)
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		created, err = uc.createOnce(ctx, in)
		if !errors.Is(err, domain.ErrDuplicateReferralNumber) {
			break
		}
		uc.log.Debug().Int("attempt", attempt).Msg("número de remisión en uso, reintentando")
	}
	if err != nil {
		return nil, err
	}

	out := ToReferralResponse(created)
	ports.PublishAll(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventReferralCreated, created.ID, out))
	return out, nil
}

func (uc *UseCase) createOnce(ctx context.Context, in dto.CreateReferralRequest) (*entity.Referral, error) {
	var ref *entity.Referral
	err := uc.txRunner.RunReferral(ctx, func(r Repos) error {
		resident, err := r.Residents.GetByID(ctx, in.ResidentID)
		if err != nil {
			return err
		}
		if resident == nil {
			return domain.ErrResidentNotFound
		}

		now := uc.now()
		last, err := r.Referrals.LastNumberWithPrefix(ctx, rules.DayPrefix(now))
		if err != nil {
			return err
		}
		seq := 1
		if n, ok := rules.ParseSequence(last, now); ok {
			seq = n + 1
		}

		ref = &entity.Referral{
			ID:                     uuid.New().String(),
			Number:                 rules.FormatNumber(now, seq),
			ResidentID:             resident.ID,
			Type:                   entity.ReferralType(in.Type),
			Status:                 entity.ReferralStatusScheduled,
			DestinationInstitution: strings.TrimSpace(in.DestinationInstitution),
			DestinationAddress:     strings.TrimSpace(in.DestinationAddress),
			ReceivingDoctor:        in.ReceivingDoctor,
			Specialty:              in.Specialty,
			ScheduledAt:            in.ScheduledAt,
			Reason:                 in.Reason,
			Diagnosis:              in.Diagnosis,
			VitalSigns:             in.VitalSigns,
			Instructions:           in.Instructions,
			AttachedDocs:           in.AttachedDocs,
			RequestedStudies:       in.RequestedStudies,
			ReferringDoctor:        strings.TrimSpace(in.ReferringDoctor),
			EscortNurse:            in.EscortNurse,
			EscortRelative:         in.EscortRelative,
			RequiresAmbulance:      in.RequiresAmbulance,
			TransportType:          in.TransportType,
			TransportCompany:       in.TransportCompany,
			EstimatedCost:          in.EstimatedCost,
			CreatedAt:              now.UTC(),
			UpdatedAt:              now.UTC(),
		}
		return r.Referrals.Create(ctx, ref)
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// UpdateReferral aplica solo los campos presentes. El cambio de estado pasa por la política configurada.
func (uc *UseCase) UpdateReferral(ctx context.Context, id string, in dto.UpdateReferralRequest) (*dto.ReferralResponse, error) {
	var ref *entity.Referral
	err := uc.txRunner.RunReferral(ctx, func(r Repos) error {
		var err error
		ref, err = r.Referrals.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.ErrReferralNotFound
		}
		if err := uc.applyUpdate(ref, in); err != nil {
			return err
		}
		ref.UpdatedAt = uc.now().UTC()
		return r.Referrals.Update(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	out := ToReferralResponse(ref)
	ports.PublishAll(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventReferralUpdated, ref.ID, out))
	return out, nil
}

func (uc *UseCase) applyUpdate(ref *entity.Referral, in dto.UpdateReferralRequest) error {
	if in.Status != nil {
		next := entity.ReferralStatus(*in.Status)
		if err := uc.policy.Allow(ref.Status, next); err != nil {
			return err
		}
		ref.Status = next
	}
	if in.DestinationInstitution != nil {
		if err := requireLen("institucion_destino", *in.DestinationInstitution, 200); err != nil {
			return err
		}
		ref.DestinationInstitution = strings.TrimSpace(*in.DestinationInstitution)
	}
	if in.DestinationAddress != nil {
		if err := requireLen("direccion_destino", *in.DestinationAddress, 200); err != nil {
			return err
		}
		ref.DestinationAddress = strings.TrimSpace(*in.DestinationAddress)
	}
	if in.ReceivingDoctor != nil {
		ref.ReceivingDoctor = *in.ReceivingDoctor
	}
	if in.Specialty != nil {
		ref.Specialty = *in.Specialty
	}
	if in.ScheduledAt != nil {
		ref.ScheduledAt = *in.ScheduledAt
	}
	// Sin validación cruzada: un retorno anterior a la salida se guarda tal cual.
	if in.DepartureAt != nil {
		ref.DepartureAt = in.DepartureAt
	}
	if in.ReturnAt != nil {
		ref.ReturnAt = in.ReturnAt
	}
	if in.VitalSigns != nil {
		ref.VitalSigns = *in.VitalSigns
	}
	if in.Instructions != nil {
		ref.Instructions = *in.Instructions
	}
	if in.EscortNurse != nil {
		ref.EscortNurse = *in.EscortNurse
	}
	if in.EscortRelative != nil {
		ref.EscortRelative = *in.EscortRelative
	}
	if in.RequiresAmbulance != nil {
		ref.RequiresAmbulance = *in.RequiresAmbulance
	}
	if in.TransportType != nil {
		ref.TransportType = *in.TransportType
	}
	if in.TransportCompany != nil {
		ref.TransportCompany = *in.TransportCompany
	}
	if in.FollowUpNotes != nil {
		ref.FollowUpNotes = *in.FollowUpNotes
	}
	if in.EstimatedCost != nil {
		if err := checkMoney("costo_estimado", *in.EstimatedCost); err != nil {
			return err
		}
		ref.EstimatedCost = in.EstimatedCost
	}
	if in.AdditionalExpenses != nil {
		ref.AdditionalExpenses = *in.AdditionalExpenses
	}
	return nil
}

// AddTrackingEvent agrega un hito al seguimiento. Se permite en cualquier estado,
// también en remisiones completadas o canceladas (corrección de registros atrasados).
func (uc *UseCase) AddTrackingEvent(ctx context.Context, referralID string, in dto.AddTrackingEventRequest) (*dto.TrackingEventResponse, error) {
	if !entity.ValidEventType(in.Type) {
		return nil, domain.Invalid("tipo_evento", "tipo de evento desconocido")
	}
	if in.OccurredAt.IsZero() {
		return nil, domain.Invalid("fecha_hora", "requerida")
	}

	var ev *entity.TrackingEvent
	err := uc.txRunner.RunReferral(ctx, func(r Repos) error {
		ref, err := r.Referrals.GetByID(ctx, referralID)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.ErrReferralNotFound
		}
		ev = &entity.TrackingEvent{
			ID:           uuid.New().String(),
			ReferralID:   ref.ID,
			Type:         in.Type,
			OccurredAt:   in.OccurredAt,
			Location:     in.Location,
			Description:  in.Description,
			Responsible:  in.Responsible,
			Observations: in.Observations,
			Completed:    in.Completed,
			CreatedAt:    uc.now().UTC(),
		}
		return r.Events.Create(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	out := ToTrackingEventResponse(ev)
	ports.PublishAll(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventTrackingAdded, referralID, out))
	return out, nil
}

// AddProfessionalInvolvement registra la intervención de un colaborador.
// El mismo colaborador puede aparecer varias veces en una remisión.
func (uc *UseCase) AddProfessionalInvolvement(ctx context.Context, referralID string, in dto.AddInvolvementRequest) (*dto.InvolvementResponse, error) {
	if strings.TrimSpace(in.CollaboratorID) == "" {
		return nil, domain.Invalid("colaborador_id", "requerido")
	}
	if err := requireLen("rol", in.Role, 100); err != nil {
		return nil, err
	}
	if in.IntervenedAt.IsZero() {
		return nil, domain.Invalid("fecha_intervencion", "requerida")
	}

	var inv *entity.ProfessionalInvolvement
	err := uc.txRunner.RunReferral(ctx, func(r Repos) error {
		ref, err := r.Referrals.GetByID(ctx, referralID)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.ErrReferralNotFound
		}
		collaborator, err := r.Collaborators.GetByID(ctx, in.CollaboratorID)
		if err != nil {
			return err
		}
		if collaborator == nil {
			return domain.ErrCollaboratorNotFound
		}
		docs := in.Documents
		if docs == nil {
			docs = []string{}
		}
		inv = &entity.ProfessionalInvolvement{
			ID:             uuid.New().String(),
			ReferralID:     ref.ID,
			CollaboratorID: collaborator.ID,
			Role:           strings.TrimSpace(in.Role),
			IntervenedAt:   in.IntervenedAt,
			Description:    in.Description,
			Notes:          in.Notes,
			Documents:      docs,
			CreatedAt:      uc.now().UTC(),
		}
		return r.Involvements.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return ToInvolvementResponse(inv), nil
}

// Get obtiene una remisión por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ReferralResponse, error) {
	ref, err := uc.reads.Referrals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.ErrReferralNotFound
	}
	return ToReferralResponse(ref), nil
}

// List lista remisiones con filtros combinados (AND) de estado y tipo.
func (uc *UseCase) List(ctx context.Context, filter repository.ReferralFilter, page dto.PageRequest) (*dto.ReferralListResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("estado", "estado desconocido")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.Invalid("tipo", "tipo desconocido")
	}
	page.DefaultPage()
	list, err := uc.reads.Referrals.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReferralResponse, 0, len(list))
	for _, ref := range list {
		items = append(items, *ToReferralResponse(ref))
	}
	return &dto.ReferralListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListTrackingEvents devuelve el seguimiento completo en orden de registro.
func (uc *UseCase) ListTrackingEvents(ctx context.Context, referralID string) ([]dto.TrackingEventResponse, error) {
	if err := uc.mustExist(ctx, referralID); err != nil {
		return nil, err
	}
	list, err := uc.reads.Events.ListByReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrackingEventResponse, 0, len(list))
	for _, ev := range list {
		out = append(out, *ToTrackingEventResponse(ev))
	}
	return out, nil
}

// ListInvolvements devuelve la trazabilidad profesional completa en orden de registro.
func (uc *UseCase) ListInvolvements(ctx context.Context, referralID string) ([]dto.InvolvementResponse, error) {
	if err := uc.mustExist(ctx, referralID); err != nil {
		return nil, err
	}
	list, err := uc.reads.Involvements.ListByReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvolvementResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *ToInvolvementResponse(inv))
	}
	return out, nil
}

// DeleteReferral elimina la remisión con su seguimiento y trazabilidad.
func (uc *UseCase) DeleteReferral(ctx context.Context, id string) error {
	return uc.txRunner.RunReferral(ctx, func(r Repos) error {
		ref, err := r.Referrals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.ErrReferralNotFound
		}
		return r.Referrals.Delete(ctx, id)
	})
}

func (uc *UseCase) mustExist(ctx context.Context, referralID string) error {
	ref, err := uc.reads.Referrals.GetByID(ctx, referralID)
	if err != nil {
		return err
	}
	if ref == nil {
		return domain.ErrReferralNotFound
	}
	return nil
}

func validateCreate(in dto.CreateReferralRequest) error {
	if strings.TrimSpace(in.ResidentID) == "" {
		return domain.Invalid("residente_id", "requerido")
	}
	if !entity.ReferralType(in.Type).Valid() {
		return domain.Invalid("tipo", "tipo de remisión desconocido")
	}
	if err := requireLen("institucion_destino", in.DestinationInstitution, 200); err != nil {
		return err
	}
	if err := requireLen("direccion_destino", in.DestinationAddress, 200); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Specialty) > 100 {
		return domain.Invalid("especialidad", "máximo 100 caracteres")
	}
	if in.ScheduledAt.IsZero() {
		return domain.Invalid("fecha_programada", "requerida")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return domain.Invalid("motivo", "requerido")
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return domain.Invalid("diagnostico_envio", "requerido")
	}
	if err := requireLen("medico_remitente", in.ReferringDoctor, 200); err != nil {
		return err
	}
	if in.EstimatedCost != nil {
		return checkMoney("costo_estimado", *in.EstimatedCost)
	}
	return nil
}

var maxMoney = decimal.New(1, 12)

// checkMoney valida un monto contra NUMERIC(14,2): no negativo, dos decimales como máximo.
func checkMoney(field string, v decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return domain.Invalid(field, "no puede ser negativo")
	case !v.Equal(v.Truncate(2)):
		return domain.Invalid(field, "máximo 2 decimales")
	case v.GreaterThanOrEqual(maxMoney):
		return domain.Invalid(field, "fuera de rango")
	}
	return nil
}

func requireLen(field, value string, limit int) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(value)); n == 0 || n > limit {
		return domain.Invalid(field, fmt.Sprintf("requerido, máximo %d caracteres", limit))
	}
	return nil
}
