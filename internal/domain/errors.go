package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrReferenced              = errors.New("el recurso tiene registros que lo referencian")
	ErrDuplicateReferralNumber = errors.New("número de remisión duplicado")
	ErrInvalidTransition       = errors.New("transición de estado no permitida")

	// ErrPersistence agrupa fallos de la base de datos (conexión, lock timeout, commit).
	// El llamador puede reintentar; el núcleo no lo hace.
	ErrPersistence = errors.New("error de persistencia")
)

// Especializaciones de ErrNotFound: errors.Is(err, ErrNotFound) sigue siendo verdadero.
var (
	ErrProductNotFound      = fmt.Errorf("producto: %w", ErrNotFound)
	ErrSupplyOrderNotFound  = fmt.Errorf("suministro: %w", ErrNotFound)
	ErrReferralNotFound     = fmt.Errorf("remisión: %w", ErrNotFound)
	ErrResidentNotFound     = fmt.Errorf("residente: %w", ErrNotFound)
	ErrCollaboratorNotFound = fmt.Errorf("colaborador: %w", ErrNotFound)
)

// ErrConcurrentUpdate se produce cuando la versión leída de una fila ya no coincide al escribir.
var ErrConcurrentUpdate = fmt.Errorf("actualización concurrente: %w", ErrPersistence)

// ValidationError describe qué campo falló y por qué. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsBusiness indica si err es una regla de negocio esperada (no un fallo de infraestructura).
func IsBusiness(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrConflict, ErrInsufficientStock,
		ErrReferenced, ErrDuplicateReferralNumber, ErrInvalidTransition, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Persistence envuelve err como ErrPersistence salvo que ya sea un error de negocio o de persistencia.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsBusiness(err) || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
