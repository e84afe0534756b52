package services

import (
	"strings"

	"github.com/skillbridge-inc/pathway-engine/pkg/models"
)

// careerTemplate is a built-in goal profile used when the LLM response is
// unusable. Keyword matching is deliberately loose so free-text goals like
// "I want to become a data scientist" still hit a template.
type careerTemplate struct {
	Role        string
	Keywords    []string
	Skills      []string
	JobTitles   []string
	Months      int
	Salary      string
	Challenges  []string
	DemandTrend string
}

var careerTemplates = []careerTemplate{
	{
		Role:        "Data Scientist",
		Keywords:    []string{"data scientist", "data science"},
		Skills:      []string{"Python", "SQL", "Statistics", "Machine Learning", "Data Visualization"},
		JobTitles:   []string{"Data Scientist", "ML Engineer", "Analytics Engineer"},
		Months:      6,
		Salary:      "$95,000 - $140,000",
		Challenges:  []string{"Math foundations take sustained effort", "Portfolio projects matter more than certificates"},
		DemandTrend: "+28% YoY",
	},
	{
		Role:        "Data Analyst",
		Keywords:    []string{"data analyst", "business analyst", "analytics"},
		Skills:      []string{"SQL", "Excel", "Power BI", "Tableau", "Statistics"},
		JobTitles:   []string{"Data Analyst", "Business Analyst", "BI Analyst"},
		Months:      4,
		Salary:      "$60,000 - $90,000",
		Challenges:  []string{"Standing out requires domain knowledge, not just tools"},
		DemandTrend: "+18% YoY",
	},
	{
		Role:        "Web Developer",
		Keywords:    []string{"web developer", "frontend", "front-end", "full stack", "fullstack", "backend developer"},
		Skills:      []string{"JavaScript", "React", "Node.js", "SQL", "Git"},
		JobTitles:   []string{"Full Stack Developer", "Frontend Developer", "Backend Developer"},
		Months:      5,
		Salary:      "$70,000 - $115,000",
		Challenges:  []string{"The ecosystem churns quickly; fundamentals outlast frameworks"},
		DemandTrend: "+12% YoY",
	},
	{
		Role:        "Cloud Engineer",
		Keywords:    []string{"cloud", "devops", "sre", "site reliability"},
		Skills:      []string{"Cloud Fundamentals", "Linux", "Docker", "Kubernetes", "DevOps"},
		JobTitles:   []string{"Cloud Engineer", "DevOps Engineer", "SRE"},
		Months:      5,
		Salary:      "$100,000 - $150,000",
		Challenges:  []string{"Hands-on lab time is essential; reading alone will not stick"},
		DemandTrend: "+42% YoY",
	},
	{
		Role:        "AI/ML Engineer",
		Keywords:    []string{"ml engineer", "machine learning engineer", "ai engineer", "deep learning"},
		Skills:      []string{"Python", "Deep Learning", "TensorFlow", "MLOps", "Statistics"},
		JobTitles:   []string{"ML Engineer", "Deep Learning Engineer", "AI Engineer"},
		Months:      7,
		Salary:      "$120,000 - $180,000",
		Challenges:  []string{"Production ML is mostly engineering, not modeling"},
		DemandTrend: "+35% YoY",
	},
}

// genericTemplate covers goals that match no known career. Unknown free-text
// goals still produce a best-effort profile; there is no whitelist rejection.
var genericTemplate = careerTemplate{
	Skills:      []string{"Programming Fundamentals", "Problem Solving", "Git", "SQL"},
	Months:      6,
	Salary:      "$55,000 - $95,000",
	Challenges:  []string{"Broad goals benefit from narrowing to a specific role early"},
	DemandTrend: "+15% YoY",
}

// lookupCareerTemplate finds the template whose keywords match the goal text.
// Falls back to a generic template with the goal itself as the role label.
func lookupCareerTemplate(goal string) careerTemplate {
	lower := strings.ToLower(goal)
	for _, tmpl := range careerTemplates {
		for _, kw := range tmpl.Keywords {
			if strings.Contains(lower, kw) {
				return tmpl
			}
		}
	}

	tmpl := genericTemplate
	tmpl.Role = strings.TrimSpace(goal)
	tmpl.JobTitles = []string{tmpl.Role}
	return tmpl
}

// heuristicProfile builds a deterministic goal profile from the taxonomy.
func heuristicProfile(input *models.LearnerInput) *models.GoalProfile {
	tmpl := lookupCareerTemplate(input.CareerGoal)
	return &models.GoalProfile{
		TargetRole:      tmpl.Role,
		JobTitles:       tmpl.JobTitles,
		RequiredSkills:  tmpl.Skills,
		EstimatedMonths: tmpl.Months,
		SalaryRange:     tmpl.Salary,
		KeyChallenges:   tmpl.Challenges,
		Source:          models.ProfileSourceHeuristic,
	}
}

// demandTrendFor returns the known demand trend for a role, or the generic
// trend for roles outside the taxonomy.
func demandTrendFor(role string) string {
	tmpl := lookupCareerTemplate(role)
	if tmpl.DemandTrend != "" {
		return tmpl.DemandTrend
	}
	return genericTemplate.DemandTrend
}
