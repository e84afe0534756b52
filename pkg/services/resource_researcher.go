package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/llm"
	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// Degradation markers attached to research output. Machine-readable so the
// caller (and tests) can assert which path was taken.
const (
	WarnSkillLookupFailed     = "skill_lookup_failed"
	WarnResearchEmpty         = "research_empty"
	WarnMarketInsightDegraded = "market_insights_degraded"
)

// ResourceCatalog is the read-only catalog capability the researcher
// consumes. repositories.ResourceRepository satisfies it.
type ResourceCatalog interface {
	FindBySkill(ctx context.Context, skill string, freeOnly bool) ([]models.ResourceCandidate, error)
}

// ResearchResult groups ranked candidates by skill, with optional market
// insights and any degradation warnings.
type ResearchResult struct {
	BySkill  map[string][]models.ResourceCandidate
	Insights *models.MarketInsights
	Warnings []string
}

// CandidateCount returns the total number of candidates across all skills.
func (r *ResearchResult) CandidateCount() int {
	n := 0
	for _, candidates := range r.BySkill {
		n += len(candidates)
	}
	return n
}

// ResourceResearcher fans catalog lookups out over the profile's required
// skills and ranks the results. A single skill failing degrades the result;
// it never fails the whole call.
type ResourceResearcher interface {
	Research(ctx context.Context, profile *models.GoalProfile, input *models.LearnerInput) (*ResearchResult, error)
}

type resourceResearcher struct {
	catalog         ResourceCatalog
	client          llm.LLMClient
	circuitBreaker  *llm.CircuitBreaker
	workerPool      *llm.WorkerPool
	coursesPerSkill int
	temperature     float64
	logger          *zap.Logger
}

// NewResourceResearcher creates a new resource researcher.
func NewResourceResearcher(
	catalog ResourceCatalog,
	client llm.LLMClient,
	circuitBreaker *llm.CircuitBreaker,
	workerPool *llm.WorkerPool,
	coursesPerSkill int,
	temperature float64,
	logger *zap.Logger,
) ResourceResearcher {
	if coursesPerSkill < 1 {
		coursesPerSkill = 3
	}
	return &resourceResearcher{
		catalog:         catalog,
		client:          client,
		circuitBreaker:  circuitBreaker,
		workerPool:      workerPool,
		coursesPerSkill: coursesPerSkill,
		temperature:     temperature,
		logger:          logger.Named("resource-researcher"),
	}
}

var _ ResourceResearcher = (*resourceResearcher)(nil)

// Research runs one catalog lookup per required skill through the worker
// pool, plus a single market-insight enrichment for the target role. The
// enrichment runs concurrently with the fan-out; both join before merge.
func (s *resourceResearcher) Research(ctx context.Context, profile *models.GoalProfile, input *models.LearnerInput) (*ResearchResult, error) {
	freeOnly := input.HasConstraint(models.ConstraintNoCost)

	insightsCh := make(chan insightsOutcome, 1)
	go func() {
		insightsCh <- s.fetchMarketInsights(ctx, profile)
	}()

	items := make([]llm.WorkItem[[]models.ResourceCandidate], 0, len(profile.RequiredSkills))
	for _, skill := range profile.RequiredSkills {
		items = append(items, llm.WorkItem[[]models.ResourceCandidate]{
			ID: skill,
			Execute: func(ctx context.Context) ([]models.ResourceCandidate, error) {
				return s.catalog.FindBySkill(ctx, skill, freeOnly)
			},
		})
	}

	results := llm.Process(ctx, s.workerPool, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Workers write disjoint keys; merging by ID keeps the outcome
	// independent of completion order.
	out := &ResearchResult{BySkill: make(map[string][]models.ResourceCandidate, len(profile.RequiredSkills))}
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			s.logger.Warn("Catalog lookup failed",
				zap.String("skill", result.ID),
				zap.Error(result.Err))
			out.BySkill[result.ID] = nil
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s:%s", WarnSkillLookupFailed, result.ID))
			failed++
			continue
		}
		out.BySkill[result.ID] = s.rank(result.ID, result.Result, freeOnly)
	}
	sort.Strings(out.Warnings)

	if out.CandidateCount() == 0 {
		out.Warnings = append(out.Warnings, WarnResearchEmpty)
	}

	outcome := <-insightsCh
	out.Insights = outcome.insights
	if outcome.degraded {
		out.Warnings = append(out.Warnings, WarnMarketInsightDegraded)
	}

	s.logger.Info("Resource research complete",
		zap.Int("skills", len(profile.RequiredSkills)),
		zap.Int("failed_lookups", failed),
		zap.Int("candidates", out.CandidateCount()))

	return out, nil
}

// rank orders candidates by a weighted score of normalized rating, relevance
// to the skill, and cost preference, deduplicated by (title, platform). Ties
// break by shorter duration, then platform name, so ranking is deterministic
// for a given candidate set.
func (s *resourceResearcher) rank(skill string, candidates []models.ResourceCandidate, freeOnly bool) []models.ResourceCandidate {
	seen := make(map[string]struct{}, len(candidates))
	ranked := make([]models.ResourceCandidate, 0, len(candidates))

	for _, c := range candidates {
		if freeOnly && !c.CostTier.IsFree() {
			// Hard filter, not a score adjustment. The repository already
			// excludes paid rows; this guards alternate catalog backends.
			continue
		}
		key := strings.ToLower(c.Title) + "|" + strings.ToLower(c.Platform)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		c.Relevance = 0.5*(c.Rating/5.0) + 0.3*skillRelevance(skill, c.SkillTags) + 0.2*costPreference(c.CostTier)
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		if ranked[i].DurationHours != ranked[j].DurationHours {
			return ranked[i].DurationHours < ranked[j].DurationHours
		}
		return ranked[i].Platform < ranked[j].Platform
	})

	if len(ranked) > s.coursesPerSkill {
		ranked = ranked[:s.coursesPerSkill]
	}
	return ranked
}

// skillRelevance scores how directly a candidate's tags match the skill:
// 1.0 for an exact tag match, 0.5 for a substring match, 0 otherwise.
func skillRelevance(skill string, tags []string) float64 {
	target := strings.ToLower(strings.TrimSpace(skill))
	best := 0.0
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		switch {
		case t == target:
			return 1.0
		case strings.Contains(t, target) || strings.Contains(target, t):
			best = 0.5
		}
	}
	return best
}

// costPreference mildly prefers cheaper resources when no hard cost
// constraint applies.
func costPreference(tier models.CostTier) float64 {
	switch tier {
	case models.CostTierFree:
		return 1.0
	case models.CostTierFreemium:
		return 0.8
	default:
		return 0.5
	}
}

type insightsOutcome struct {
	insights *models.MarketInsights
	degraded bool
}

// fetchMarketInsights asks the LLM for role commentary. The demand trend and
// salary figures come from the deterministic taxonomy either way; a failed
// call degrades to taxonomy-only insights rather than dropping them.
func (s *resourceResearcher) fetchMarketInsights(ctx context.Context, profile *models.GoalProfile) insightsOutcome {
	insights := &models.MarketInsights{
		Role:          profile.TargetRole,
		DemandTrend:   demandTrendFor(profile.TargetRole),
		MarketGrowth:  "High",
		AverageSalary: profile.SalaryRange,
	}

	if allowed, err := s.circuitBreaker.Allow(); !allowed {
		s.logger.Warn("Skipping market insight enrichment", zap.Error(err))
		insights.MarketGrowth = "Stable"
		return insightsOutcome{insights: insights, degraded: true}
	}

	prompt := fmt.Sprintf(`Provide concise job market insights for a %s role:
1. Current demand trend
2. Salary expectations
3. Key skills in demand
4. Career growth opportunities

Keep the response short and actionable.`, profile.TargetRole)

	result, err := s.client.GenerateResponse(ctx, prompt, "You are a labor-market analyst.", s.temperature)
	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.logger.Warn("Market insight enrichment failed", zap.Error(err))
		insights.MarketGrowth = "Stable"
		return insightsOutcome{insights: insights, degraded: true}
	}
	s.circuitBreaker.RecordSuccess()

	insights.Commentary = strings.TrimSpace(result.Content)
	return insightsOutcome{insights: insights}
}
