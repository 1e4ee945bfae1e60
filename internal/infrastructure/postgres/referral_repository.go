package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/residencia-api/internal/domain"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

var _ repository.ReferralRepository = (*ReferralRepo)(nil)

const referralColumns = `id, number, resident_id, type, status,
	destination_institution, destination_address, receiving_doctor, specialty,
	scheduled_at, departure_at, return_at,
	reason, diagnosis, vital_signs, instructions, attached_docs, requested_studies,
	referring_doctor, escort_nurse, escort_relative,
	requires_ambulance, transport_type, transport_company,
	follow_up_notes, estimated_cost, additional_expenses, created_at, updated_at`

// ReferralRepo remisiones sobre PostgreSQL. La restricción UNIQUE sobre number es la que garantiza
// que dos creaciones concurrentes no compartan número.
type ReferralRepo struct {
	q Querier
}

// NewReferralRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferralRepository(q Querier) *ReferralRepo {
	return &ReferralRepo{q: q}
}

func referralArgs(r *entity.Referral) []any {
	return []any{
		r.ID, r.Number, r.ResidentID, string(r.Type), string(r.Status),
		r.DestinationInstitution, r.DestinationAddress, r.ReceivingDoctor, r.Specialty,
		r.ScheduledAt, r.DepartureAt, r.ReturnAt,
		r.Reason, r.Diagnosis, r.VitalSigns, r.Instructions, r.AttachedDocs, r.RequestedStudies,
		r.ReferringDoctor, r.EscortNurse, r.EscortRelative,
		r.RequiresAmbulance, r.TransportType, r.TransportCompany,
		r.FollowUpNotes, r.EstimatedCost, r.AdditionalExpenses, r.CreatedAt, r.UpdatedAt,
	}
}

func scanReferral(row pgx.Row) (*entity.Referral, error) {
	var (
		r       entity.Referral
		refType string
		status  string
	)
	err := row.Scan(
		&r.ID, &r.Number, &r.ResidentID, &refType, &status,
		&r.DestinationInstitution, &r.DestinationAddress, &r.ReceivingDoctor, &r.Specialty,
		&r.ScheduledAt, &r.DepartureAt, &r.ReturnAt,
		&r.Reason, &r.Diagnosis, &r.VitalSigns, &r.Instructions, &r.AttachedDocs, &r.RequestedStudies,
		&r.ReferringDoctor, &r.EscortNurse, &r.EscortRelative,
		&r.RequiresAmbulance, &r.TransportType, &r.TransportCompany,
		&r.FollowUpNotes, &r.EstimatedCost, &r.AdditionalExpenses, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Type = entity.ReferralType(refType)
	r.Status = entity.ReferralStatus(status)
	return &r, nil
}

// Create inserta la remisión. Un número repetido devuelve domain.ErrDuplicateReferralNumber.
func (r *ReferralRepo) Create(ctx context.Context, ref *entity.Referral) error {
	placeholders := make([]string, 29)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `INSERT INTO referrals (` + referralColumns + `) VALUES (` + strings.Join(placeholders, ", ") + `)`
	_, err := r.q.Exec(ctx, query, referralArgs(ref)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReferralNumber
		}
		if isForeignKeyViolation(err) {
			return domain.ErrResidentNotFound
		}
		return wrap("insert referral", err)
	}
	return nil
}

// GetByID obtiene una remisión por ID; (nil, nil) si no existe.
func (r *ReferralRepo) GetByID(ctx context.Context, id string) (*entity.Referral, error) {
	return r.getOne(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila para que dos actualizaciones parciales no se pisen.
func (r *ReferralRepo) GetForUpdate(ctx context.Context, id string) (*entity.Referral, error) {
	return r.getOne(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReferralRepo) getOne(ctx context.Context, query, id string) (*entity.Referral, error) {
	ref, err := scanReferral(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if missingRow(err) {
			return nil, nil
		}
		return nil, wrap("get referral", err)
	}
	return ref, nil
}

// Update reemplaza los campos mutables. number, resident_id y created_at no cambian.
func (r *ReferralRepo) Update(ctx context.Context, ref *entity.Referral) error {
	query := `
		UPDATE referrals SET type = $2, status = $3,
			destination_institution = $4, destination_address = $5, receiving_doctor = $6, specialty = $7,
			scheduled_at = $8, departure_at = $9, return_at = $10,
			reason = $11, diagnosis = $12, vital_signs = $13, instructions = $14, attached_docs = $15,
			requested_studies = $16, referring_doctor = $17, escort_nurse = $18, escort_relative = $19,
			requires_ambulance = $20, transport_type = $21, transport_company = $22,
			follow_up_notes = $23, estimated_cost = $24, additional_expenses = $25, updated_at = $26
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		ref.ID, string(ref.Type), string(ref.Status),
		ref.DestinationInstitution, ref.DestinationAddress, ref.ReceivingDoctor, ref.Specialty,
		ref.ScheduledAt, ref.DepartureAt, ref.ReturnAt,
		ref.Reason, ref.Diagnosis, ref.VitalSigns, ref.Instructions, ref.AttachedDocs,
		ref.RequestedStudies, ref.ReferringDoctor, ref.EscortNurse, ref.EscortRelative,
		ref.RequiresAmbulance, ref.TransportType, ref.TransportCompany,
		ref.FollowUpNotes, ref.EstimatedCost, ref.AdditionalExpenses, ref.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrReferralNotFound
		}
		return wrap("update referral", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReferralNotFound
	}
	return nil
}

// List lista remisiones (más recientes primero) con filtros AND de estado y tipo.
func (r *ReferralRepo) List(ctx context.Context, filter repository.ReferralFilter, limit, offset int) ([]*entity.Referral, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	query := `SELECT ` + referralColumns + ` FROM referrals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list referrals", err)
	}
	defer rows.Close()
	var list []*entity.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, wrap("scan referral", err)
		}
		list = append(list, ref)
	}
	return list, wrap("list referrals", rows.Err())
}

// LastNumberWithPrefix devuelve el número más alto emitido con el prefijo del día.
// Ordena por longitud antes que por texto para que la secuencia 10000 supere a 9999.
func (r *ReferralRepo) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT number FROM referrals WHERE number LIKE $1 || '%'
		 ORDER BY length(number) DESC, number DESC LIMIT 1`,
		prefix,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", wrap("last referral number", err)
	}
	return number, nil
}

// Delete borra la remisión; seguimiento y trazabilidad caen por ON DELETE CASCADE.
func (r *ReferralRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM referrals WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrReferralNotFound
		}
		return wrap("delete referral", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReferralNotFound
	}
	return nil
}
