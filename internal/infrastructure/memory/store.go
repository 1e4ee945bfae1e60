// Package memory implementa los puertos de persistencia sobre un estado en memoria con
// transacciones serializadas: cada transacción trabaja sobre una copia y la confirma al terminar.
// Se usa con STORE_DRIVER=memory y en las pruebas de concurrencia.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ referral.TxRunner  = (*Store)(nil)
)

type state struct {
	products      []entity.Product
	movements     []entity.InventoryMovement
	supplyOrders  []entity.SupplyOrder
	residents     map[string]entity.Resident
	collaborators map[string]entity.Collaborator
	referrals     []entity.Referral
	events        []entity.TrackingEvent
	involvements  []entity.ProfessionalInvolvement
	seq           int64
}

func newState() *state {
	return &state{
		residents:     map[string]entity.Resident{},
		collaborators: map[string]entity.Collaborator{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:      append([]entity.Product(nil), s.products...),
		movements:     append([]entity.InventoryMovement(nil), s.movements...),
		supplyOrders:  append([]entity.SupplyOrder(nil), s.supplyOrders...),
		residents:     make(map[string]entity.Resident, len(s.residents)),
		collaborators: make(map[string]entity.Collaborator, len(s.collaborators)),
		referrals:     append([]entity.Referral(nil), s.referrals...),
		events:        append([]entity.TrackingEvent(nil), s.events...),
		involvements:  make([]entity.ProfessionalInvolvement, len(s.involvements)),
		seq:           s.seq,
	}
	for k, v := range s.residents {
		c.residents[k] = v
	}
	for k, v := range s.collaborators {
		c.collaborators[k] = v
	}
	for i, inv := range s.involvements {
		inv.Documents = append([]string(nil), inv.Documents...)
		c.involvements[i] = inv
	}
	return c
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// handle da acceso al estado: dentro de una transacción directo, fuera de ella con el lock del Store.
type handle interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type txHandle struct{ st *state }

func (h txHandle) read(fn func(st *state) error) error  { return fn(h.st) }
func (h txHandle) write(fn func(st *state) error) error { return fn(h.st) }

// Store almacén en memoria. Las transacciones se serializan con un único mutex.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write trabaja sobre una copia para que una operación fallida no deje cambios a medias.
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx
	return nil
}

func (s *Store) transact(ctx context.Context, fn func(h handle) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.Persistence("begin transaction", err)
	}
	tx := s.state.clone()
	if err := fn(txHandle{st: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	s.state = tx
	return nil
}

// Run ejecuta fn con los repositorios de inventario atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	supplyRepo repository.SupplyOrderRepository,
) error) error {
	return s.transact(ctx, func(h handle) error {
		return fn(&MovementRepo{h: h}, &ProductRepo{h: h}, &SupplyOrderRepo{h: h})
	})
}

// RunReferral ejecuta fn con los repositorios de remisiones atados a una transacción.
func (s *Store) RunReferral(ctx context.Context, fn func(repos referral.Repos) error) error {
	return s.transact(ctx, func(h handle) error {
		return fn(referralRepos(h))
	})
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{h: s} }

// Movements repositorio del libro de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{h: s} }

// SupplyOrders repositorio de órdenes de suministro fuera de transacción.
func (s *Store) SupplyOrders() *SupplyOrderRepo { return &SupplyOrderRepo{h: s} }

// ReferralRepos repositorios de remisiones fuera de transacción.
func (s *Store) ReferralRepos() referral.Repos { return referralRepos(s) }

// AddResident registra un residente (alta simplificada para arranque local y pruebas).
func (s *Store) AddResident(r entity.Resident) {
	_ = s.write(func(st *state) error {
		st.residents[r.ID] = r
		return nil
	})
}

// AddCollaborator registra un colaborador.
func (s *Store) AddCollaborator(c entity.Collaborator) {
	_ = s.write(func(st *state) error {
		st.collaborators[c.ID] = c
		return nil
	})
}

func referralRepos(h handle) referral.Repos {
	return referral.Repos{
		Referrals:     &ReferralRepo{h: h},
		Events:        &TrackingEventRepo{h: h},
		Involvements:  &InvolvementRepo{h: h},
		Residents:     &ResidentRepo{h: h},
		Collaborators: &CollaboratorRepo{h: h},
	}
}

func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
