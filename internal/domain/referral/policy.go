package referral

import (
	"fmt"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
)

// TransitionPolicy decide si una remisión puede pasar de un estado a otro.
// Se inyecta en el caso de uso para poder endurecer las reglas sin tocar el modelo.
type TransitionPolicy interface {
	Allow(from, to entity.ReferralStatus) error
}

// PermissivePolicy acepta cualquier transición entre estados válidos, incluso desde estados terminales.
// Es el comportamiento histórico del sistema.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, to entity.ReferralStatus) error {
	if !to.Valid() {
		return domain.Invalid("estado", fmt.Sprintf("estado desconocido %q", to))
	}
	return nil
}

// StrictPolicy aplica el flujo programada → en_proceso → completada, con cancelada
// alcanzable desde cualquier estado no terminal. completada y cancelada quedan congeladas.
type StrictPolicy struct{}

func (StrictPolicy) Allow(from, to entity.ReferralStatus) error {
	if !to.Valid() {
		return domain.Invalid("estado", fmt.Sprintf("estado desconocido %q", to))
	}
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s es terminal", domain.ErrInvalidTransition, from)
	}
	switch to {
	case entity.ReferralStatusInProgress:
		if from == entity.ReferralStatusScheduled {
			return nil
		}
	case entity.ReferralStatusCompleted:
		if from == entity.ReferralStatusInProgress {
			return nil
		}
	case entity.ReferralStatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}

// PolicyFor devuelve StrictPolicy si strict es verdadero y PermissivePolicy en otro caso.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
