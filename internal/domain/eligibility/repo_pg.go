package eligibility

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcmstack/rcm/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// -- Patient repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, patient_code, first_name, last_name, date_of_birth,
	provider_code, policy_number, policy_status, coverage_percentage, copay, deductible,
	created_at, updated_at`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patients (
			id, patient_code, first_name, last_name, date_of_birth,
			provider_code, policy_number, policy_status, coverage_percentage, copay, deductible
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.PatientCode, p.FirstName, p.LastName, p.DateOfBirth,
		p.ProviderCode, p.PolicyNumber, p.PolicyStatus, p.CoveragePercentage, p.Copay, p.Deductible,
	)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByCode(ctx context.Context, code string) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE patient_code = $1`, code))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patients SET
			first_name=$2, last_name=$3, date_of_birth=$4, provider_code=$5,
			policy_number=$6, policy_status=$7, coverage_percentage=$8, copay=$9, deductible=$10,
			updated_at=now()
		WHERE id=$1`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.ProviderCode,
		p.PolicyNumber, p.PolicyStatus, p.CoveragePercentage, p.Copay, p.Deductible,
	)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY patient_code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	patients := []*Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *patientRepoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM patients`).Scan(&total)
	return total, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.PatientCode, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.ProviderCode, &p.PolicyNumber, &p.PolicyStatus, &p.CoveragePercentage, &p.Copay, &p.Deductible,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -- Insurance provider repository --

type providerRepoPG struct {
	pool *pgxpool.Pool
}

func NewProviderRepo(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepoPG{pool: pool}
}

const providerCols = `id, code, name, active, contact_email, contact_phone, created_at`

func (r *providerRepoPG) Create(ctx context.Context, p *InsuranceProvider) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insurance_providers (id, code, name, active, contact_email, contact_phone)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Code, p.Name, p.Active, p.ContactEmail, p.ContactPhone,
	)
	return err
}

func (r *providerRepoPG) GetByCode(ctx context.Context, code string) (*InsuranceProvider, error) {
	return scanProvider(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+providerCols+` FROM insurance_providers WHERE code = $1`, code))
}

func (r *providerRepoPG) ListActive(ctx context.Context) ([]*InsuranceProvider, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+providerCols+` FROM insurance_providers WHERE active ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := []*InsuranceProvider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func scanProvider(row pgx.Row) (*InsuranceProvider, error) {
	var p InsuranceProvider
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.ContactEmail, &p.ContactPhone, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -- Eligibility check repository --

type checkRepoPG struct {
	pool *pgxpool.Pool
}

func NewCheckRepo(pool *pgxpool.Pool) CheckRepository {
	return &checkRepoPG{pool: pool}
}

const checkCols = `id, patient_code, provider_code, service_type, eligible,
	coverage_likelihood, estimated_patient_cost, ai_prediction, recommendations, provider_response,
	reference_number, checked_at`

func (r *checkRepoPG) Create(ctx context.Context, chk *EligibilityCheck) error {
	chk.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO eligibility_checks (
			id, patient_code, provider_code, service_type, eligible,
			coverage_likelihood, estimated_patient_cost, ai_prediction, recommendations, provider_response,
			reference_number, checked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		chk.ID, chk.PatientCode, chk.ProviderCode, chk.ServiceType, chk.Eligible,
		chk.CoverageLikelihood, chk.EstimatedPatientCost, chk.AIPrediction, chk.Recommendations, chk.ProviderResponse,
		chk.ReferenceNumber, chk.CheckedAt,
	)
	return err
}

func (r *checkRepoPG) ListByPatient(ctx context.Context, patientCode string, limit int) ([]*EligibilityCheck, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+checkCols+` FROM eligibility_checks WHERE patient_code = $1 ORDER BY checked_at DESC LIMIT $2`,
		patientCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChecks(rows)
}

func (r *checkRepoPG) ListRecent(ctx context.Context, limit int) ([]*EligibilityCheck, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+checkCols+` FROM eligibility_checks ORDER BY checked_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChecks(rows)
}

func (r *checkRepoPG) CountByEligible(ctx context.Context) (int, int, error) {
	var eligible, total int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE eligible), count(*) FROM eligibility_checks`).Scan(&eligible, &total)
	return eligible, total, err
}

func collectChecks(rows pgx.Rows) ([]*EligibilityCheck, error) {
	checks := []*EligibilityCheck{}
	for rows.Next() {
		var c EligibilityCheck
		err := rows.Scan(
			&c.ID, &c.PatientCode, &c.ProviderCode, &c.ServiceType, &c.Eligible,
			&c.CoverageLikelihood, &c.EstimatedPatientCost, &c.AIPrediction, &c.Recommendations, &c.ProviderResponse,
			&c.ReferenceNumber, &c.CheckedAt,
		)
		if err != nil {
			return nil, err
		}
		checks = append(checks, &c)
	}
	return checks, rows.Err()
}
