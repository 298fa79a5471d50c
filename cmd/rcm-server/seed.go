package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcmstack/rcm/internal/domain/claims"
	"github.com/rcmstack/rcm/internal/domain/eligibility"
	"github.com/rcmstack/rcm/internal/domain/identity"
	"github.com/rcmstack/rcm/internal/domain/priorauth"
	"github.com/rcmstack/rcm/internal/platform/auth"
)

// runSeed loads demo accounts, patients, payers and a small claims
// history so a fresh database is immediately usable. Re-running is safe;
// existing rows are left alone.
func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	if err := seedUsers(ctx, pool); err != nil {
		return err
	}
	if err := seedProviders(ctx, pool); err != nil {
		return err
	}
	if err := seedPatients(ctx, pool); err != nil {
		return err
	}
	if err := seedClaims(ctx, pool); err != nil {
		return err
	}
	if err := seedPriorAuths(ctx, pool); err != nil {
		return err
	}
	fmt.Println("Seed data loaded.")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	svc := identity.NewService(identity.NewUserRepo(pool))
	users := []identity.RegisterRequest{
		{Username: "admin", Email: "admin@rcmstack.local", Password: "admin123", Role: auth.RoleAdmin},
		{Username: "dr.hassan", Email: "dr.hassan@rcmstack.local", Password: "provider123", Role: auth.RoleHealthcareProvider},
		{Username: "coordinator", Email: "coordinator@rcmstack.local", Password: "coord123", Role: auth.RoleInsuranceCoordinator},
	}
	for _, req := range users {
		if _, err := svc.Register(ctx, req); err != nil {
			if errors.Is(err, identity.ErrEmailTaken) || errors.Is(err, identity.ErrUsernameTaken) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", req.Email, err)
		}
		fmt.Printf("Created user %s (%s)\n", req.Username, req.Role)
	}
	return nil
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool) error {
	repo := eligibility.NewProviderRepo(pool)
	providers := []*eligibility.InsuranceProvider{
		{Code: "daman", Name: "Daman National Health Insurance", Active: true, ContactEmail: "claims@daman.example", ContactPhone: "+971-2-000-0001"},
		{Code: "tawuniya", Name: "Tawuniya", Active: true, ContactEmail: "claims@tawuniya.example", ContactPhone: "+966-11-000-0002"},
		{Code: "bupa", Name: "Bupa Arabia", Active: true, ContactEmail: "claims@bupa.example", ContactPhone: "+966-11-000-0003"},
		{Code: "medgulf", Name: "MedGulf", Active: true, ContactEmail: "claims@medgulf.example", ContactPhone: "+966-11-000-0004"},
		{Code: "legacy_health", Name: "Legacy Health Plan", Active: false},
	}
	for _, p := range providers {
		if _, err := repo.GetByCode(ctx, p.Code); err == nil {
			continue
		}
		p.ID = uuid.New()
		p.CreatedAt = time.Now().UTC()
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed provider %s: %w", p.Code, err)
		}
		fmt.Printf("Created payer %s\n", p.Code)
	}
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool) error {
	repo := eligibility.NewPatientRepo(pool)
	dob1 := time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC)
	dob2 := time.Date(1992, 7, 2, 0, 0, 0, 0, time.UTC)
	dob3 := time.Date(1978, 11, 21, 0, 0, 0, 0, time.UTC)
	patients := []*eligibility.Patient{
		{PatientCode: "P001", FirstName: "Ahmed", LastName: "Hassan", DateOfBirth: &dob1, ProviderCode: "daman", PolicyNumber: "DM-449201", PolicyStatus: "active", CoveragePercentage: 80, Copay: 25, Deductible: 500},
		{PatientCode: "P002", FirstName: "Sara", LastName: "Ali", DateOfBirth: &dob2, ProviderCode: "tawuniya", PolicyNumber: "TW-118822", PolicyStatus: "expired", CoveragePercentage: 70, Copay: 50, Deductible: 1500},
		{PatientCode: "P003", FirstName: "Omar", LastName: "Khalid", DateOfBirth: &dob3, ProviderCode: "bupa", PolicyNumber: "BP-902134", PolicyStatus: "active", CoveragePercentage: 90, Copay: 10, Deductible: 250},
	}
	for _, p := range patients {
		if _, err := repo.GetByCode(ctx, p.PatientCode); err == nil {
			continue
		}
		p.ID = uuid.New()
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.PatientCode, err)
		}
		fmt.Printf("Created patient %s (%s)\n", p.PatientCode, p.FullName())
	}
	return nil
}

func seedClaims(ctx context.Context, pool *pgxpool.Pool) error {
	repo := claims.NewRepo(pool)
	now := time.Now().UTC()
	seed := []*claims.Claim{
		{ClaimNumber: "CLM001", PatientCode: "P001", ProviderCode: "daman", DiagnosisCodes: []string{"I10"}, ProcedureCodes: []string{"99213"}, Amount: 450, AllowedAmount: 405, PaidAmount: 405, Status: claims.StatusPaid, ComplianceStatus: "Compliant", SubmittedAt: now.AddDate(0, 0, -20)},
		{ClaimNumber: "CLM002", PatientCode: "P002", ProviderCode: "tawuniya", DiagnosisCodes: []string{"M79.3"}, ProcedureCodes: []string{"73060"}, Amount: 1200, AllowedAmount: 0, Status: claims.StatusDenied, RiskScore: 0.6, ComplianceStatus: "Review", DenialReason: "Medical necessity not established", SubmittedAt: now.AddDate(0, 0, -12)},
		{ClaimNumber: "CLM003", PatientCode: "P003", ProviderCode: "bupa", DiagnosisCodes: []string{"E11.9"}, ProcedureCodes: []string{"80053", "36415"}, Amount: 320, AllowedAmount: 288, Status: claims.StatusApproved, ComplianceStatus: "Compliant", SubmittedAt: now.AddDate(0, 0, -5)},
		{ClaimNumber: "CLM004", PatientCode: "P001", ProviderCode: "daman", DiagnosisCodes: []string{"J44.1"}, ProcedureCodes: []string{"99214"}, Amount: 560, Status: claims.StatusSubmitted, ComplianceStatus: "Compliant", SubmittedAt: now.AddDate(0, 0, -1)},
	}
	for _, cl := range seed {
		if _, err := repo.GetByClaimNumber(ctx, cl.ClaimNumber); err == nil {
			continue
		}
		cl.ID = uuid.New()
		cl.UpdatedAt = now
		if err := repo.Create(ctx, cl); err != nil {
			return fmt.Errorf("seed claim %s: %w", cl.ClaimNumber, err)
		}
		fmt.Printf("Created claim %s\n", cl.ClaimNumber)
	}
	return nil
}

func seedPriorAuths(ctx context.Context, pool *pgxpool.Pool) error {
	repo := priorauth.NewRepo(pool)
	now := time.Now().UTC()
	decision := now.AddDate(0, 0, -8)
	seed := []*priorauth.PriorAuthorization{
		{AuthNumber: "PA8F21A3", PatientCode: "P001", Procedure: "MRI lumbar spine", Diagnosis: "M79.3", EstimatedCost: 2800, Status: priorauth.StatusApproved, ApprovalLikelihood: 88, RiskFactors: []string{}, Recommendations: []string{}, Documents: []string{"mri_order.pdf"}, SubmittedAt: now.AddDate(0, 0, -10), DecisionDate: &decision},
		{AuthNumber: "PA3C90D7", PatientCode: "P002", Procedure: "Knee arthroscopy surgery", Diagnosis: "M23.2", EstimatedCost: 15000, Status: priorauth.StatusPending, ApprovalLikelihood: 75, RiskFactors: []string{"High-cost surgical procedure"}, Recommendations: []string{"Attach operative report and conservative treatment history"}, Documents: []string{}, SubmittedAt: now.AddDate(0, 0, -3)},
	}
	for _, pa := range seed {
		if _, err := repo.GetByAuthNumber(ctx, pa.AuthNumber); err == nil {
			continue
		}
		pa.ID = uuid.New()
		pa.UpdatedAt = now
		if err := repo.Create(ctx, pa); err != nil {
			return fmt.Errorf("seed prior auth %s: %w", pa.AuthNumber, err)
		}
		fmt.Printf("Created prior authorization %s\n", pa.AuthNumber)
	}
	return nil
}
