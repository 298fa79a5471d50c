package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rcmstack/rcm/internal/domain/claims"
	"github.com/rcmstack/rcm/internal/domain/eligibility"
	"github.com/rcmstack/rcm/internal/domain/priorauth"
)

const (
	recentPerModule   = 10
	recentActivityCap = 20
	stalePendingDays  = 30
)

type Service struct {
	claims claims.Repository
	auths  priorauth.Repository
	checks eligibility.CheckRepository
}

func NewService(claimRepo claims.Repository, authRepo priorauth.Repository, checkRepo eligibility.CheckRepository) *Service {
	return &Service{claims: claimRepo, auths: authRepo, checks: checkRepo}
}

// ClaimStats summarizes the claims workload.
type ClaimStats struct {
	Total               int            `json:"total"`
	StatusBreakdown     map[string]int `json:"status_breakdown"`
	ApprovalRate        float64        `json:"approval_rate"`
	TotalAmount         float64        `json:"total_amount"`
	TotalAllowed        float64        `json:"total_allowed"`
	TotalPaid           float64        `json:"total_paid"`
	SubmittedLast30Days int            `json:"submitted_last_30_days"`
}

// PriorAuthStats summarizes prior authorization requests.
type PriorAuthStats struct {
	Total             int            `json:"total"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
	PendingOver30Days int            `json:"pending_over_30_days"`
}

// EligibilityStats summarizes verification activity.
type EligibilityStats struct {
	TotalChecks    int     `json:"total_checks"`
	EligibleChecks int     `json:"eligible_checks"`
	SuccessRate    float64 `json:"success_rate"`
}

type Stats struct {
	Claims      ClaimStats       `json:"claims"`
	PriorAuth   PriorAuthStats   `json:"prior_authorizations"`
	Eligibility EligibilityStats `json:"eligibility"`
	GeneratedAt time.Time        `json:"generated_at"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	claimCounts, err := s.claims.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	totalAmount, totalAllowed, totalPaid, err := s.claims.Totals(ctx)
	if err != nil {
		return nil, err
	}
	last30, err := s.claims.CountSubmittedSince(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	authCounts, err := s.auths.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stalePending, err := s.auths.CountPendingOlderThan(ctx, stalePendingDays)
	if err != nil {
		return nil, err
	}

	eligible, totalChecks, err := s.checks.CountByEligible(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Claims: ClaimStats{
			StatusBreakdown:     claimCounts,
			TotalAmount:         totalAmount,
			TotalAllowed:        totalAllowed,
			TotalPaid:           totalPaid,
			SubmittedLast30Days: last30,
		},
		PriorAuth: PriorAuthStats{
			StatusBreakdown:   authCounts,
			PendingOver30Days: stalePending,
		},
		Eligibility: EligibilityStats{
			TotalChecks:    totalChecks,
			EligibleChecks: eligible,
		},
		GeneratedAt: time.Now().UTC(),
	}
	for _, n := range claimCounts {
		stats.Claims.Total += n
	}
	if stats.Claims.Total > 0 {
		decided := claimCounts[claims.StatusApproved] + claimCounts[claims.StatusPaid]
		stats.Claims.ApprovalRate = round2(float64(decided) / float64(stats.Claims.Total) * 100)
	}
	for _, n := range authCounts {
		stats.PriorAuth.Total += n
	}
	if totalChecks > 0 {
		stats.Eligibility.SuccessRate = round2(float64(eligible) / float64(totalChecks) * 100)
	}
	return stats, nil
}

// Activity is one entry in the cross-module activity feed.
type Activity struct {
	Type        string    `json:"type"`
	Reference   string    `json:"reference"`
	PatientCode string    `json:"patient_id"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RecentActivity merges the latest claims, prior authorizations and
// eligibility checks into one feed, newest first.
func (s *Service) RecentActivity(ctx context.Context) ([]Activity, error) {
	recentClaims, err := s.claims.ListRecent(ctx, recentPerModule)
	if err != nil {
		return nil, err
	}
	recentAuths, err := s.auths.ListRecent(ctx, recentPerModule)
	if err != nil {
		return nil, err
	}
	recentChecks, err := s.checks.ListRecent(ctx, recentPerModule)
	if err != nil {
		return nil, err
	}

	feed := make([]Activity, 0, len(recentClaims)+len(recentAuths)+len(recentChecks))
	for _, cl := range recentClaims {
		feed = append(feed, Activity{
			Type:        "claim",
			Reference:   cl.ClaimNumber,
			PatientCode: cl.PatientCode,
			Description: fmt.Sprintf("Claim %s submitted for %.2f", cl.ClaimNumber, cl.Amount),
			Status:      cl.Status,
			OccurredAt:  cl.SubmittedAt,
		})
	}
	for _, pa := range recentAuths {
		feed = append(feed, Activity{
			Type:        "prior_authorization",
			Reference:   pa.AuthNumber,
			PatientCode: pa.PatientCode,
			Description: fmt.Sprintf("Prior authorization %s requested for %s", pa.AuthNumber, pa.Procedure),
			Status:      pa.Status,
			OccurredAt:  pa.SubmittedAt,
		})
	}
	for _, chk := range recentChecks {
		outcome := "not eligible"
		if chk.Eligible {
			outcome = "eligible"
		}
		feed = append(feed, Activity{
			Type:        "eligibility_check",
			Reference:   chk.ReferenceNumber,
			PatientCode: chk.PatientCode,
			Description: fmt.Sprintf("Eligibility check for %s: %s", chk.ServiceType, outcome),
			OccurredAt:  chk.CheckedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].OccurredAt.After(feed[j].OccurredAt) })
	if len(feed) > recentActivityCap {
		feed = feed[:recentActivityCap]
	}
	return feed, nil
}

// Insight is one operational observation derived from current stats.
type Insight struct {
	ID             string `json:"id"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Detail         string `json:"detail"`
	AffectedModule string `json:"affected_module"`
}

// Insights derives rule-based observations from the aggregated stats.
// The rules are local; no model call is involved.
func (s *Service) Insights(ctx context.Context) ([]Insight, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	insights := []Insight{}
	if stats.Claims.Total > 0 {
		switch {
		case stats.Claims.ApprovalRate < 70:
			insights = append(insights, Insight{
				ID:             "DASH-001",
				Severity:       "warning",
				Title:          "Claim approval rate below target",
				Detail:         fmt.Sprintf("Only %.1f%% of claims are approved or paid. Review scrubbing results before submission.", stats.Claims.ApprovalRate),
				AffectedModule: "claims",
			})
		case stats.Claims.ApprovalRate > 85:
			insights = append(insights, Insight{
				ID:             "DASH-002",
				Severity:       "success",
				Title:          "Claim approval rate is healthy",
				Detail:         fmt.Sprintf("%.1f%% of claims are approved or paid.", stats.Claims.ApprovalRate),
				AffectedModule: "claims",
			})
		}
		if stats.Claims.SubmittedLast30Days*100 > stats.Claims.Total*40 {
			insights = append(insights, Insight{
				ID:             "DASH-003",
				Severity:       "info",
				Title:          "Submission volume is rising",
				Detail:         fmt.Sprintf("%d of %d claims were submitted in the last 30 days.", stats.Claims.SubmittedLast30Days, stats.Claims.Total),
				AffectedModule: "claims",
			})
		}
	}
	if stats.PriorAuth.PendingOver30Days > 0 {
		insights = append(insights, Insight{
			ID:             "DASH-004",
			Severity:       "warning",
			Title:          "Stale prior authorizations",
			Detail:         fmt.Sprintf("%d prior authorization requests have been pending for over %d days.", stats.PriorAuth.PendingOver30Days, stalePendingDays),
			AffectedModule: "prior_authorization",
		})
	}
	if stats.Eligibility.TotalChecks > 0 && stats.Eligibility.SuccessRate < 60 {
		insights = append(insights, Insight{
			ID:             "DASH-005",
			Severity:       "info",
			Title:          "Low eligibility success rate",
			Detail:         fmt.Sprintf("Only %.1f%% of eligibility checks came back eligible. Verify policy details at registration.", stats.Eligibility.SuccessRate),
			AffectedModule: "eligibility",
		})
	}
	return insights, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
