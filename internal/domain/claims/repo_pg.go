package claims

import (
	"context"
	"fmt"
	"strings"
	"time"

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

const claimCols = `id, claim_number, patient_code, provider_code, diagnosis_codes, procedure_codes,
	amount, allowed_amount, paid_amount, status, risk_score, compliance_status, denial_reason, notes,
	submitted_at, updated_at`

func (r *repoPG) Create(ctx context.Context, cl *Claim) error {
	cl.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO claims (
			id, claim_number, patient_code, provider_code, diagnosis_codes, procedure_codes,
			amount, allowed_amount, paid_amount, status, risk_score, compliance_status,
			denial_reason, notes, submitted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		cl.ID, cl.ClaimNumber, cl.PatientCode, cl.ProviderCode, cl.DiagnosisCodes, cl.ProcedureCodes,
		cl.Amount, cl.AllowedAmount, cl.PaidAmount, cl.Status, cl.RiskScore, cl.ComplianceStatus,
		cl.DenialReason, cl.Notes, cl.SubmittedAt,
	)
	return err
}

func (r *repoPG) GetByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error) {
	return scanClaim(r.conn(ctx).QueryRow(ctx,
		`SELECT `+claimCols+` FROM claims WHERE claim_number = $1`, claimNumber))
}

func (r *repoPG) Update(ctx context.Context, cl *Claim) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE claims SET
			status=$2, allowed_amount=$3, paid_amount=$4, risk_score=$5, compliance_status=$6,
			denial_reason=$7, notes=$8, updated_at=now()
		WHERE id=$1`,
		cl.ID, cl.Status, cl.AllowedAmount, cl.PaidAmount, cl.RiskScore, cl.ComplianceStatus,
		cl.DenialReason, cl.Notes,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, f ListFilters, limit, offset int) ([]*Claim, int, error) {
	where := []string{}
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("submitted_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("submitted_at <= $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM claims`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(
		`SELECT %s FROM claims%s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`,
		claimCols, clause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	claims, err := collectClaims(rows)
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*Claim, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+claimCols+` FROM claims ORDER BY submitted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClaims(rows)
}

func (r *repoPG) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT status, count(*) FROM claims GROUP BY status`)
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

func (r *repoPG) Totals(ctx context.Context) (float64, float64, float64, error) {
	var amount, allowed, paid float64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT coalesce(sum(amount), 0), coalesce(sum(allowed_amount), 0), coalesce(sum(paid_amount), 0)
		FROM claims`).Scan(&amount, &allowed, &paid)
	return amount, allowed, paid, err
}

func (r *repoPG) CountSubmittedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM claims WHERE submitted_at >= $1`, since).Scan(&n)
	return n, err
}

func scanClaim(row pgx.Row) (*Claim, error) {
	var cl Claim
	err := row.Scan(
		&cl.ID, &cl.ClaimNumber, &cl.PatientCode, &cl.ProviderCode, &cl.DiagnosisCodes, &cl.ProcedureCodes,
		&cl.Amount, &cl.AllowedAmount, &cl.PaidAmount, &cl.Status, &cl.RiskScore, &cl.ComplianceStatus,
		&cl.DenialReason, &cl.Notes, &cl.SubmittedAt, &cl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func collectClaims(rows pgx.Rows) ([]*Claim, error) {
	claims := []*Claim{}
	for rows.Next() {
		cl, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, cl)
	}
	return claims, rows.Err()
}
