package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/residencia-api/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. stock negativo.
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isInvalidText verifica si el valor no se pudo convertir al tipo de la columna (22P02),
// p. ej. un id que no es UUID.
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidText
}

// missingRow trata un id mal formado igual que una fila inexistente.
func missingRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err)
}

// wrapQuery es wrap para consultas filtradas por id: un id mal formado no tiene filas.
func wrapQuery(op string, err error) error {
	if isInvalidText(err) {
		return nil
	}
	return wrap(op, err)
}

// wrap traduce un error del driver a la taxonomía del dominio.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.Persistence(op, err)
}
