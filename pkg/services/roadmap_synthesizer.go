package services

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

const (
	// scoreThreshold is the fixed acceptance threshold on the 0-10 scale.
	scoreThreshold = 7.0
	// maxIterations bounds the draft/evaluate/revise loop.
	maxIterations = 3
)

// Evaluation weights. The exact numbers are an implementation choice, not an
// external contract; they are fixed here for deterministic tests.
const (
	weightCoverage      = 0.35
	weightFeasibility   = 0.25
	weightQuality       = 0.20
	weightCertification = 0.10
	weightAccessibility = 0.10
)

var phaseNames = []string{"Foundation", "Intermediate", "Advanced"}

// RoadmapSynthesizer drafts a phased roadmap from ranked resources and
// revises it until the quality threshold is met or the iteration budget is
// exhausted. It always returns a draft; empty research produces a low-scoring
// roadmap, not an error.
type RoadmapSynthesizer interface {
	Synthesize(profile *models.GoalProfile, research *ResearchResult, input *models.LearnerInput) (*models.RoadmapDraft, *models.EvaluationResult)
}

type roadmapSynthesizer struct {
	logger *zap.Logger
}

// NewRoadmapSynthesizer creates a new roadmap synthesizer.
func NewRoadmapSynthesizer(logger *zap.Logger) RoadmapSynthesizer {
	return &roadmapSynthesizer{logger: logger.Named("roadmap-synthesizer")}
}

var _ RoadmapSynthesizer = (*roadmapSynthesizer)(nil)

// Synthesize runs the draft/evaluate/decide loop. Iterations are strictly
// sequential. Each iteration produces a new immutable draft; revision widens
// the per-skill course selection where the weekly budget allows. The
// best-scoring draft seen across iterations is returned, so a revision that
// does not improve the score never regresses the result.
func (s *roadmapSynthesizer) Synthesize(profile *models.GoalProfile, research *ResearchResult, input *models.LearnerInput) (*models.RoadmapDraft, *models.EvaluationResult) {
	var (
		bestDraft *models.RoadmapDraft
		bestEval  *models.EvaluationResult
	)

	for iteration := 1; iteration <= maxIterations; iteration++ {
		draft := s.draft(profile, research, input, iteration)
		eval := s.evaluate(draft, profile, input, iteration)

		s.logger.Info("Synthesis iteration evaluated",
			zap.Int("iteration", iteration),
			zap.Float64("score", eval.Score),
			zap.Bool("passed", eval.Passed))

		if bestEval == nil || eval.Score > bestEval.Score {
			bestDraft, bestEval = draft, eval
		}

		if eval.Passed {
			break
		}
	}

	return bestDraft, bestEval
}

// draft builds one roadmap. courseBudget is the per-skill course count for
// this iteration: iteration 1 keeps only the top pick per skill, later
// iterations admit alternates as long as the phase stays within roughly
// double the learner's weekly budget once spread over its weeks.
func (s *roadmapSynthesizer) draft(profile *models.GoalProfile, research *ResearchResult, input *models.LearnerInput, courseBudget int) *models.RoadmapDraft {
	draft := &models.RoadmapDraft{
		Title:       fmt.Sprintf("%s Mastery Path", profile.TargetRole),
		PrimaryGoal: profile.TargetRole,
	}

	for number, skills := range partitionSkills(profile.RequiredSkills) {
		phase := models.Phase{
			Number: number + 1,
			Title:  phaseTitle(number, skills),
			Skills: skills,
		}

		phaseHours := 0
		for _, skill := range skills {
			candidates := research.BySkill[skill]
			take := min(courseBudget, len(candidates))
			for i := 0; i < take; i++ {
				c := candidates[i]
				if i > 0 && !fitsBudget(phaseHours+c.DurationHours, input.WeeklyHours) {
					break
				}
				phase.Courses = append(phase.Courses, models.RankedCourse{
					Rank:          len(phase.Courses) + 1,
					Skill:         skill,
					Title:         c.Title,
					Platform:      c.Platform,
					DurationHours: c.DurationHours,
					Rating:        c.Rating,
					CostTier:      c.CostTier,
					URL:           c.URL,
				})
				phaseHours += c.DurationHours
			}
		}

		if phaseHours > 0 {
			phase.DurationWeeks = int(math.Ceil(float64(phaseHours) / float64(input.WeeklyHours)))
		}

		draft.TotalHours += phaseHours
		draft.TotalWeeks += phase.DurationWeeks
		draft.Phases = append(draft.Phases, phase)
	}

	return draft
}

// partitionSkills splits skills in order into up to three phases. Small
// skill counts produce fewer phases rather than empty ones.
func partitionSkills(skills []string) [][]string {
	if len(skills) == 0 {
		return nil
	}

	phases := min(len(phaseNames), len(skills))
	base := len(skills) / phases
	extra := len(skills) % phases

	out := make([][]string, 0, phases)
	start := 0
	for i := 0; i < phases; i++ {
		size := base
		if i < extra {
			size++
		}
		out = append(out, skills[start:start+size])
		start += size
	}
	return out
}

func phaseTitle(number int, skills []string) string {
	name := "Phase"
	if number < len(phaseNames) {
		name = phaseNames[number]
	}
	preview := skills
	if len(preview) > 2 {
		preview = preview[:2]
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(preview, ", "))
}

// fitsBudget accepts extra courses while the phase can still be finished in
// a reasonable number of weeks. A phase longer than 8 weeks of the learner's
// budget is considered overloaded.
func fitsBudget(phaseHours, weeklyHours int) bool {
	return phaseHours <= weeklyHours*8
}

// evaluate scores a draft deterministically on the 0-10 scale.
func (s *roadmapSynthesizer) evaluate(draft *models.RoadmapDraft, profile *models.GoalProfile, input *models.LearnerInput, iteration int) *models.EvaluationResult {
	coverage := skillCoverage(draft, profile)
	feasibility := feasibilityScore(draft, input.WeeklyHours)
	quality := qualityScore(draft)
	certification := certificationScore(draft, input)
	accessibility := accessibilityScore(draft, input)

	score := 10 * (weightCoverage*coverage +
		weightFeasibility*feasibility +
		weightQuality*quality +
		weightCertification*certification +
		weightAccessibility*accessibility)
	score = math.Round(score*10) / 10

	rationale := fmt.Sprintf(
		"coverage %.2f (%d/%d skills), feasibility %.2f (%d hours over %d weeks at %d hours/week), quality %.2f, certification %.2f, accessibility %.2f",
		coverage, coveredSkillCount(draft), len(profile.RequiredSkills),
		feasibility, draft.TotalHours, draft.TotalWeeks, input.WeeklyHours,
		quality, certification, accessibility)

	return &models.EvaluationResult{
		Score:     score,
		Rationale: rationale,
		Passed:    score >= scoreThreshold,
		Iteration: iteration,
	}
}

func coveredSkillCount(draft *models.RoadmapDraft) int {
	covered := make(map[string]struct{})
	for _, phase := range draft.Phases {
		for _, course := range phase.Courses {
			covered[course.Skill] = struct{}{}
		}
	}
	return len(covered)
}

// skillCoverage is the fraction of required skills with at least one course.
func skillCoverage(draft *models.RoadmapDraft, profile *models.GoalProfile) float64 {
	if len(profile.RequiredSkills) == 0 {
		return 0
	}
	return float64(coveredSkillCount(draft)) / float64(len(profile.RequiredSkills))
}

// feasibilityScore compares the implied weekly load against the learner's
// budget. An empty roadmap is trivially feasible.
func feasibilityScore(draft *models.RoadmapDraft, weeklyHours int) float64 {
	if draft.TotalHours == 0 || draft.TotalWeeks == 0 {
		return 1.0
	}
	load := float64(draft.TotalHours) / float64(draft.TotalWeeks)
	if load <= float64(weeklyHours) {
		return 1.0
	}
	return float64(weeklyHours) / load
}

// qualityScore is the normalized average course rating.
func qualityScore(draft *models.RoadmapDraft) float64 {
	count := draft.CourseCount()
	if count == 0 {
		return 0
	}
	sum := 0.0
	for _, phase := range draft.Phases {
		for _, course := range phase.Courses {
			sum += course.Rating
		}
	}
	return (sum / float64(count)) / 5.0
}

// certificationScore rewards roadmaps where every phase has course material
// when the learner wants a certification; without that preference the
// component is neutral.
func certificationScore(draft *models.RoadmapDraft, input *models.LearnerInput) float64 {
	if !input.WantsCertification {
		return 1.0
	}
	if draft.CourseCount() == 0 {
		return 0
	}
	for _, phase := range draft.Phases {
		if len(phase.Courses) == 0 {
			return 0.7
		}
	}
	return 1.0
}

// accessibilityScore is the fraction of courses matching a no-cost
// constraint; neutral when the constraint is absent.
func accessibilityScore(draft *models.RoadmapDraft, input *models.LearnerInput) float64 {
	if !input.HasConstraint(models.ConstraintNoCost) {
		return 1.0
	}
	count := draft.CourseCount()
	if count == 0 {
		return 0
	}
	free := 0
	for _, phase := range draft.Phases {
		for _, course := range phase.Courses {
			if course.CostTier.IsFree() {
				free++
			}
		}
	}
	return float64(free) / float64(count)
}
