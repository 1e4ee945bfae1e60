package referral_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/ports"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	rules "github.com/jhoicas/residencia-api/internal/domain/referral"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
	"github.com/jhoicas/residencia-api/internal/infrastructure/memory"
	"github.com/jhoicas/residencia-api/pkg/logger"
)

const (
	residentID     = "res-1"
	collaboratorID = "col-1"
)

var jan1 = time.Date(2025, 1, 1, 9, 30, 0, 0, time.Local)

func newStore() *memory.Store {
	store := memory.New()
	store.AddResident(entity.Resident{ID: residentID, FullName: "Ana Pérez", FileNumber: "EXP-01", Active: true})
	store.AddCollaborator(entity.Collaborator{ID: collaboratorID, FullName: "Luis Gómez", Kind: "enfermero", Active: true})
	return store
}

func newUseCase(store *memory.Store, tx referral.TxRunner, pub ports.EventPublisher, opts referral.Options) *referral.UseCase {
	if tx == nil {
		tx = store
	}
	uc := referral.NewUseCase(tx, store.ReferralRepos(), pub, logger.Nop(), opts)
	uc.SetClock(func() time.Time { return jan1 })
	return uc
}

func createRequest() dto.CreateReferralRequest {
	cost := decimal.NewFromInt(350)
	return dto.CreateReferralRequest{
		ResidentID:             residentID,
		Type:                   string(entity.ReferralTypeConsultation),
		DestinationInstitution: "Hospital General",
		DestinationAddress:     "Av. Central 100",
		ScheduledAt:            jan1.Add(2 * time.Hour),
		Reason:                 "Control cardiológico",
		Diagnosis:              "Hipertensión",
		ReferringDoctor:        "Dra. Ruiz",
		EstimatedCost:          &cost,
	}
}

func TestCreateReferral_NumeracionPorDia(t *testing.T) {
	store := newStore()
	uc := newUseCase(store, nil, nil, referral.Options{})
	ctx := context.Background()

	first, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, "REM-20250101-0001", first.Number)
	assert.Equal(t, string(entity.ReferralStatusScheduled), first.Status)

	second, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, "REM-20250101-0002", second.Number)

	uc.SetClock(func() time.Time { return jan1.AddDate(0, 0, 1) })
	next, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, "REM-20250102-0001", next.Number, "la secuencia reinicia cada día")
}

func TestCreateReferral_BorradoNoReutilizaNumero(t *testing.T) {
	store := newStore()
	uc := newUseCase(store, nil, nil, referral.Options{})
	ctx := context.Background()

	first, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	second, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	require.NoError(t, uc.DeleteReferral(ctx, first.ID))

	third, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	assert.NotEqual(t, second.Number, third.Number)
	assert.Equal(t, "REM-20250101-0003", third.Number)
}

// En memoria las transacciones se serializan, así que aquí no compiten por el número;
// en PostgreSQL la garantía es la restricción uq_referrals_number más el reintento
// que cubre TestCreateReferral_ReintentaAnteColision.
func TestCreateReferral_ConcurrentesNumerosDistintos(t *testing.T) {
	store := newStore()
	uc := newUseCase(store, nil, nil, referral.Options{})

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]bool)
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.CreateReferral(context.Background(), createRequest())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[out.Number] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, n)
	for i := 1; i <= n; i++ {
		assert.True(t, numbers[fmt.Sprintf("REM-20250101-%04d", i)])
	}
}

// collidingTx simula otra creación que gana la carrera por el número en los primeros intentos.
type collidingTx struct {
	store      *memory.Store
	collisions int
	calls      int
}

func (c *collidingTx) RunReferral(ctx context.Context, fn func(repos referral.Repos) error) error {
	c.calls++
	if c.calls <= c.collisions {
		return domain.ErrDuplicateReferralNumber
	}
	return c.store.RunReferral(ctx, fn)
}

func TestCreateReferral_ReintentaAnteColision(t *testing.T) {
	store := newStore()
	tx := &collidingTx{store: store, collisions: 2}
	uc := newUseCase(store, tx, nil, referral.Options{MaxNumberAttempts: 3})

	out, err := uc.CreateReferral(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "REM-20250101-0001", out.Number)
	assert.Equal(t, 3, tx.calls)
}

func TestCreateReferral_AgotaReintentos(t *testing.T) {
	store := newStore()
	tx := &collidingTx{store: store, collisions: 10}
	uc := newUseCase(store, tx, nil, referral.Options{MaxNumberAttempts: 3})

	_, err := uc.CreateReferral(context.Background(), createRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicateReferralNumber)
	assert.Equal(t, 3, tx.calls)

	list, err := uc.List(context.Background(), repository.ReferralFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateReferral_Validaciones(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()

	in := createRequest()
	in.ResidentID = "otro"
	_, err := uc.CreateReferral(ctx, in)
	assert.ErrorIs(t, err, domain.ErrResidentNotFound)

	in = createRequest()
	in.Type = "visita"
	_, err = uc.CreateReferral(ctx, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tipo", ve.Field)

	in = createRequest()
	in.ScheduledAt = time.Time{}
	_, err = uc.CreateReferral(ctx, in)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fecha_programada", ve.Field)
}

func TestCostoEstimado_EscalaDeCentavos(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()

	for name, raw := range map[string]string{
		"tres decimales": "10.005",
		"negativo":       "-1",
		"fuera de rango": "1000000000000",
	} {
		t.Run(name, func(t *testing.T) {
			in := createRequest()
			cost := decimal.RequireFromString(raw)
			in.EstimatedCost = &cost
			_, err := uc.CreateReferral(ctx, in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "costo_estimado", ve.Field)
		})
	}

	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	bad := decimal.RequireFromString("99.999")
	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{EstimatedCost: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ok := decimal.RequireFromString("99.90")
	out, err := uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{EstimatedCost: &ok})
	require.NoError(t, err)
	require.NotNil(t, out.EstimatedCost)
	assert.True(t, out.EstimatedCost.Equal(ok))
}

func TestUpdateReferral_ParcialYPermisivo(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	completed := string(entity.ReferralStatusCompleted)
	departure := jan1.Add(3 * time.Hour)
	back := jan1.Add(time.Hour) // antes de la salida: se acepta
	out, err := uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: &completed, DepartureAt: &departure, ReturnAt: &back})
	require.NoError(t, err)
	assert.Equal(t, completed, out.Status)
	assert.Equal(t, "Hospital General", out.DestinationInstitution, "los campos ausentes no cambian")
	require.NotNil(t, out.ReturnAt)
	assert.True(t, out.ReturnAt.Before(*out.DepartureAt))

	scheduled := string(entity.ReferralStatusScheduled)
	out, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: &scheduled})
	require.NoError(t, err, "la política permisiva permite salir de un estado terminal")
	assert.Equal(t, scheduled, out.Status)

	unknown := "perdida"
	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: &unknown})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateReferral(ctx, "no-existe", dto.UpdateReferralRequest{Status: &scheduled})
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
}

// lockSpyTx registra cómo lee la remisión cada transacción de actualización.
type lockSpyTx struct {
	store  *memory.Store
	mu     sync.Mutex
	locked int
	plain  int
}

type lockSpyRepo struct {
	repository.ReferralRepository
	tx *lockSpyTx
}

func (r lockSpyRepo) GetByID(ctx context.Context, id string) (*entity.Referral, error) {
	r.tx.mu.Lock()
	r.tx.plain++
	r.tx.mu.Unlock()
	return r.ReferralRepository.GetByID(ctx, id)
}

func (r lockSpyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Referral, error) {
	r.tx.mu.Lock()
	r.tx.locked++
	r.tx.mu.Unlock()
	return r.ReferralRepository.GetForUpdate(ctx, id)
}

func (s *lockSpyTx) RunReferral(ctx context.Context, fn func(repos referral.Repos) error) error {
	return s.store.RunReferral(ctx, func(repos referral.Repos) error {
		repos.Referrals = lockSpyRepo{ReferralRepository: repos.Referrals, tx: s}
		return fn(repos)
	})
}

func TestUpdateReferral_BloqueaLaFilaAntesDeEscribir(t *testing.T) {
	store := newStore()
	ref, err := newUseCase(store, nil, nil, referral.Options{}).CreateReferral(context.Background(), createRequest())
	require.NoError(t, err)

	spy := &lockSpyTx{store: store}
	uc := newUseCase(store, spy, nil, referral.Options{})
	notes := "Traer estudios previos"
	_, err = uc.UpdateReferral(context.Background(), ref.ID, dto.UpdateReferralRequest{FollowUpNotes: &notes})
	require.NoError(t, err)

	assert.Equal(t, 1, spy.locked)
	assert.Equal(t, 0, spy.plain)
}

func TestUpdateReferral_ParcialesConcurrentesNoSePisan(t *testing.T) {
	store := newStore()
	uc := newUseCase(store, nil, nil, referral.Options{})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	inProgress := string(entity.ReferralStatusInProgress)
	notes := "Ayuno de 8 horas"
	requests := []dto.UpdateReferralRequest{{Status: &inProgress}, {FollowUpNotes: &notes}}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, req := range requests {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.UpdateReferral(ctx, ref.ID, req)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	out, err := uc.Get(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, inProgress, out.Status)
	assert.Equal(t, notes, out.FollowUpNotes)
}

func TestUpdateReferral_PoliticaEstricta(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{Policy: rules.StrictPolicy{}})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	status := func(s entity.ReferralStatus) *string {
		v := string(s)
		return &v
	}

	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: status(entity.ReferralStatusCompleted)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: status(entity.ReferralStatusInProgress)})
	require.NoError(t, err)
	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: status(entity.ReferralStatusCompleted)})
	require.NoError(t, err)

	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: status(entity.ReferralStatusCancelled)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := uc.Get(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReferralStatusCompleted), got.Status, "un rechazo no modifica la remisión")
}

func TestTrackingEvents_OrdenDeRegistro(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	// Las fechas del cliente van en orden inverso: el listado respeta el orden de registro.
	kinds := []string{entity.EventArrival, entity.EventProcedure, entity.EventDeparture}
	for i, kind := range kinds {
		_, err := uc.AddTrackingEvent(ctx, ref.ID, dto.AddTrackingEventRequest{
			Type:       kind,
			OccurredAt: jan1.Add(time.Duration(len(kinds)-i) * time.Hour),
		})
		require.NoError(t, err)
	}

	events, err := uc.ListTrackingEvents(ctx, ref.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, kind := range kinds {
		assert.Equal(t, kind, events[i].Type)
	}

	_, err = uc.AddTrackingEvent(ctx, ref.ID, dto.AddTrackingEventRequest{Type: "fiesta", OccurredAt: jan1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddTrackingEvent(ctx, "no-existe", dto.AddTrackingEventRequest{Type: entity.EventArrival, OccurredAt: jan1})
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
}

func TestTrackingEvents_PermitidoEnEstadoTerminal(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{Policy: rules.StrictPolicy{}})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	cancelled := string(entity.ReferralStatusCancelled)
	_, err = uc.UpdateReferral(ctx, ref.ID, dto.UpdateReferralRequest{Status: &cancelled})
	require.NoError(t, err)

	_, err = uc.AddTrackingEvent(ctx, ref.ID, dto.AddTrackingEventRequest{Type: entity.EventIncident, OccurredAt: jan1})
	assert.NoError(t, err)
}

func TestInvolvements_RepetidosYColaboradorInexistente(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	for _, role := range []string{"acompañante", "responsable de traslado"} {
		_, err := uc.AddProfessionalInvolvement(ctx, ref.ID, dto.AddInvolvementRequest{
			CollaboratorID: collaboratorID, Role: role, IntervenedAt: jan1,
		})
		require.NoError(t, err)
	}
	list, err := uc.ListInvolvements(ctx, ref.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acompañante", list[0].Role)
	assert.NotNil(t, list[0].Documents)

	_, err = uc.AddProfessionalInvolvement(ctx, ref.ID, dto.AddInvolvementRequest{
		CollaboratorID: "nadie", Role: "x", IntervenedAt: jan1,
	})
	assert.ErrorIs(t, err, domain.ErrCollaboratorNotFound)
}

func TestDeleteReferral_Cascada(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	_, err = uc.AddTrackingEvent(ctx, ref.ID, dto.AddTrackingEventRequest{Type: entity.EventDeparture, OccurredAt: jan1})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteReferral(ctx, ref.ID))
	_, err = uc.Get(ctx, ref.ID)
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
	_, err = uc.ListTrackingEvents(ctx, ref.ID)
	assert.ErrorIs(t, err, domain.ErrReferralNotFound)
	assert.ErrorIs(t, uc.DeleteReferral(ctx, ref.ID), domain.ErrReferralNotFound)
}

func TestList_FiltrosCombinados(t *testing.T) {
	uc := newUseCase(newStore(), nil, nil, referral.Options{})
	ctx := context.Background()
	_, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)
	in := createRequest()
	in.Type = string(entity.ReferralTypeEmergency)
	urgent, err := uc.CreateReferral(ctx, in)
	require.NoError(t, err)
	cancelled := string(entity.ReferralStatusCancelled)
	_, err = uc.UpdateReferral(ctx, urgent.ID, dto.UpdateReferralRequest{Status: &cancelled})
	require.NoError(t, err)

	out, err := uc.List(ctx, repository.ReferralFilter{Type: entity.ReferralTypeEmergency, Status: entity.ReferralStatusCancelled}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, urgent.ID, out.Items[0].ID)

	out, err = uc.List(ctx, repository.ReferralFilter{Type: entity.ReferralTypeEmergency, Status: entity.ReferralStatusScheduled}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestEventos_SePublicanTrasConfirmar(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := ports.NewMockEventPublisher(ctrl)
	uc := newUseCase(newStore(), nil, pub, referral.Options{})
	ctx := context.Background()

	pub.EXPECT().Publish(gomock.Any(), gomock.Cond(func(x any) bool {
		ev, ok := x.(ports.Event)
		if !ok {
			return false
		}
		return ev.Type == ports.EventReferralCreated
	})).Return(nil)
	ref, err := uc.CreateReferral(ctx, createRequest())
	require.NoError(t, err)

	pub.EXPECT().Publish(gomock.Any(), gomock.Cond(func(x any) bool {
		ev, ok := x.(ports.Event)
		if !ok {
			return false
		}
		return ev.Type == ports.EventTrackingAdded && ev.AggregateID == ref.ID
	})).Return(fmt.Errorf("broker caído"))
	_, err = uc.AddTrackingEvent(ctx, ref.ID, dto.AddTrackingEventRequest{Type: entity.EventDeparture, OccurredAt: jan1})
	require.NoError(t, err, "un fallo al publicar no deshace el registro")

	events, err := uc.ListTrackingEvents(ctx, ref.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
