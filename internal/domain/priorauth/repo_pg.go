package priorauth

import (
	"context"
	"fmt"

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

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const authCols = `id, auth_number, patient_code, procedure, diagnosis, medical_history,
	estimated_cost, status, approval_likelihood, risk_factors, recommendations, documents,
	submitted_at, decision_date, updated_at`

func (r *repoPG) Create(ctx context.Context, pa *PriorAuthorization) error {
	pa.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prior_authorizations (
			id, auth_number, patient_code, procedure, diagnosis, medical_history,
			estimated_cost, status, approval_likelihood, risk_factors, recommendations, documents,
			submitted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		pa.ID, pa.AuthNumber, pa.PatientCode, pa.Procedure, pa.Diagnosis, pa.MedicalHistory,
		pa.EstimatedCost, pa.Status, pa.ApprovalLikelihood, pa.RiskFactors, pa.Recommendations, pa.Documents,
		pa.SubmittedAt,
	)
	return err
}

func (r *repoPG) GetByAuthNumber(ctx context.Context, authNumber string) (*PriorAuthorization, error) {
	return scanAuth(r.conn(ctx).QueryRow(ctx,
		`SELECT `+authCols+` FROM prior_authorizations WHERE auth_number = $1`, authNumber))
}

func (r *repoPG) Update(ctx context.Context, pa *PriorAuthorization) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prior_authorizations SET
			status=$2, approval_likelihood=$3, risk_factors=$4, recommendations=$5,
			documents=$6, decision_date=$7, updated_at=now()
		WHERE id=$1`,
		pa.ID, pa.Status, pa.ApprovalLikelihood, pa.RiskFactors, pa.Recommendations,
		pa.Documents, pa.DecisionDate,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*PriorAuthorization, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM prior_authorizations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+authCols+` FROM prior_authorizations ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	auths, err := collectAuths(rows)
	if err != nil {
		return nil, 0, err
	}
	return auths, total, nil
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*PriorAuthorization, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+authCols+` FROM prior_authorizations ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAuths(rows)
}

func (r *repoPG) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT status, count(*) FROM prior_authorizations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *repoPG) CountPendingOlderThan(ctx context.Context, days int) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, fmt.Sprintf(
		`SELECT count(*) FROM prior_authorizations
		 WHERE status = 'pending' AND submitted_at < now() - interval '%d days'`, days)).Scan(&n)
	return n, err
}

func scanAuth(row pgx.Row) (*PriorAuthorization, error) {
	var pa PriorAuthorization
	err := row.Scan(
		&pa.ID, &pa.AuthNumber, &pa.PatientCode, &pa.Procedure, &pa.Diagnosis, &pa.MedicalHistory,
		&pa.EstimatedCost, &pa.Status, &pa.ApprovalLikelihood, &pa.RiskFactors, &pa.Recommendations, &pa.Documents,
		&pa.SubmittedAt, &pa.DecisionDate, &pa.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pa, nil
}

func collectAuths(rows pgx.Rows) ([]*PriorAuthorization, error) {
	auths := []*PriorAuthorization{}
	for rows.Next() {
		pa, err := scanAuth(rows)
		if err != nil {
			return nil, err
		}
		auths = append(auths, pa)
	}
	return auths, rows.Err()
}
