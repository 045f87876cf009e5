// Package resumes turns uploaded resumes into portfolio rows: the Parser asks
// an LLM for structured data and the Importer merges approved data into the
// live entities without creating duplicates.
package resumes

import (
	"regexp"
	"strings"

	"github.com/rpupo63/portfolia-backend/models"
)

// ExtractedData is the structured form of a resume. The same shape is
// returned after an upload and sent back, possibly edited, on confirmation.
type ExtractedData struct {
	Name     models.FlexString `json:"name"`
	Title    models.FlexString `json:"title"`
	Location models.FlexString `json:"location"`
	Email    models.FlexString `json:"email"`
	About    models.FlexString `json:"about"`
	Github   models.FlexString `json:"github"`
	Linkedin models.FlexString `json:"linkedin"`
	Website  models.FlexString `json:"website"`

	Projects       []ExtractedProject     `json:"projects" validate:"dive"`
	Skills         []ExtractedSkill       `json:"skills" validate:"dive"`
	WorkExperience []ExtractedWork        `json:"work_experience" validate:"dive"`
	Certifications []ExtractedCertificate `json:"certifications" validate:"dive"`
	Achievements   []ExtractedAchievement `json:"achievements" validate:"dive"`
}

type ExtractedProject struct {
	Title       models.FlexString `json:"title" validate:"required"`
	Description models.FlexString `json:"description"`
	Tech        models.StringList `json:"tech"`
	Features    models.StringList `json:"features"`
}

type ExtractedSkill struct {
	Name     models.FlexString `json:"name" validate:"required"`
	Level    models.FlexString `json:"level"`
	Category models.FlexString `json:"category"`
}

type ExtractedWork struct {
	Title       models.FlexString `json:"title" validate:"required"`
	Company     models.FlexString `json:"company" validate:"required"`
	Duration    models.FlexString `json:"duration"`
	Location    models.FlexString `json:"location"`
	Description models.FlexString `json:"description"`
}

type ExtractedCertificate struct {
	Name        models.FlexString `json:"name" validate:"required"`
	Issuer      models.FlexString `json:"issuer"`
	Year        models.FlexString `json:"year"`
	Description models.FlexString `json:"description"`
}

type ExtractedAchievement struct {
	Title       models.FlexString `json:"title" validate:"required"`
	Issuer      models.FlexString `json:"issuer"`
	Date        models.FlexString `json:"date"`
	Type        models.FlexString `json:"type"`
	Description models.FlexString `json:"description"`
}

const defaultAchievementType = "award"

// Normalize trims every field, makes all lists non-nil and maps skill levels
// and categories onto the fixed vocabularies.
func (d *ExtractedData) Normalize() {
	for _, f := range []*models.FlexString{&d.Name, &d.Title, &d.Location, &d.Email, &d.About, &d.Github, &d.Linkedin, &d.Website} {
		*f = trim(*f)
	}

	if d.Projects == nil {
		d.Projects = []ExtractedProject{}
	}
	for i := range d.Projects {
		p := &d.Projects[i]
		p.Title, p.Description = trim(p.Title), trim(p.Description)
		if p.Tech == nil {
			p.Tech = models.StringList{}
		}
		if p.Features == nil {
			p.Features = models.StringList{}
		}
	}

	if d.Skills == nil {
		d.Skills = []ExtractedSkill{}
	}
	for i := range d.Skills {
		s := &d.Skills[i]
		s.Name = trim(s.Name)
		s.Level = models.FlexString(NormalizeSkillLevel(string(s.Level)))
		s.Category = models.FlexString(NormalizeSkillCategory(string(s.Category)))
	}

	if d.WorkExperience == nil {
		d.WorkExperience = []ExtractedWork{}
	}
	for i := range d.WorkExperience {
		w := &d.WorkExperience[i]
		w.Title, w.Company, w.Duration = trim(w.Title), trim(w.Company), trim(w.Duration)
		w.Location, w.Description = trim(w.Location), trim(w.Description)
	}

	if d.Certifications == nil {
		d.Certifications = []ExtractedCertificate{}
	}
	for i := range d.Certifications {
		c := &d.Certifications[i]
		c.Name, c.Issuer, c.Year, c.Description = trim(c.Name), trim(c.Issuer), trim(c.Year), trim(c.Description)
	}

	if d.Achievements == nil {
		d.Achievements = []ExtractedAchievement{}
	}
	for i := range d.Achievements {
		a := &d.Achievements[i]
		a.Title, a.Issuer, a.Date, a.Description = trim(a.Title), trim(a.Issuer), trim(a.Date), trim(a.Description)
		a.Type = trim(a.Type)
		if a.Type == "" {
			a.Type = defaultAchievementType
		}
	}
}

// DropIncomplete removes entries whose required fields are blank. Model
// output is pruned this way instead of being rejected as a whole.
func (d *ExtractedData) DropIncomplete() {
	d.Projects = keep(d.Projects, func(p ExtractedProject) bool { return p.Title != "" })
	d.Skills = keep(d.Skills, func(s ExtractedSkill) bool { return s.Name != "" })
	d.WorkExperience = keep(d.WorkExperience, func(w ExtractedWork) bool { return w.Title != "" && w.Company != "" })
	d.Certifications = keep(d.Certifications, func(c ExtractedCertificate) bool { return c.Name != "" })
	d.Achievements = keep(d.Achievements, func(a ExtractedAchievement) bool { return a.Title != "" })
}

func keep[T any](items []T, ok func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if ok(item) {
			out = append(out, item)
		}
	}
	return out
}

func trim(s models.FlexString) models.FlexString {
	return models.FlexString(strings.TrimSpace(string(s)))
}

var levelSynonyms = map[string]string{
	"BEGINNER":     models.SkillLevelBeginner,
	"BASIC":        models.SkillLevelBeginner,
	"NOVICE":       models.SkillLevelBeginner,
	"INTERMEDIATE": models.SkillLevelIntermediate,
	"MEDIUM":       models.SkillLevelIntermediate,
	"PROFICIENT":   models.SkillLevelIntermediate,
	"ADVANCED":     models.SkillLevelAdvanced,
	"EXPERT":       models.SkillLevelAdvanced,
	"PROFESSIONAL": models.SkillLevelAdvanced,
}

// NormalizeSkillLevel maps free-form proficiency words onto the three
// levels. Anything unrecognised becomes Intermediate.
func NormalizeSkillLevel(level string) string {
	if l, ok := levelSynonyms[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return l
	}
	return models.SkillLevelIntermediate
}

type categoryKeywords struct {
	category string
	keywords []string
}

// Checked in order; the first category with a matching keyword wins.
var categoryRules = []categoryKeywords{
	{models.SkillCategoryMobile, []string{"mobile", "android", "ios", "flutter", "react native", "swift", "kotlin"}},
	{models.SkillCategoryFrontend, []string{"react", "vue", "angular", "html", "css", "javascript", "typescript", "ui", "ux", "web dev", "frontend"}},
	{models.SkillCategoryBackend, []string{"python", "java", "node", "django", "flask", "spring", "api", "backend", "server"}},
	{models.SkillCategoryDevOps, []string{"docker", "kubernetes", "ci/cd", "jenkins", "devops", "deployment"}},
	{models.SkillCategoryDatabase, []string{"sql", "mongodb", "postgres", "mysql", "redis", "database", "db"}},
	{models.SkillCategoryCloud, []string{"aws", "azure", "gcp", "cloud", "heroku"}},
	{models.SkillCategoryAIML, []string{"ai", "ml", "machine learning", "tensorflow", "pytorch", "nlp", "data science"}},
}

var wordPattern = regexp.MustCompile(`[a-z0-9/+#.]+`)

// NormalizeSkillCategory maps a category label onto the known categories:
// exact names first, then keyword matching, then Other. Short keywords such
// as "ui" or "db" only match whole words so that "build" is not Frontend.
func NormalizeSkillCategory(category string) string {
	if c, ok := models.CanonicalSkillCategory(category); ok {
		return c
	}

	lower := strings.ToLower(category)
	words := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(lower, -1) {
		words[w] = true
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if len(kw) <= 3 {
				if words[kw] {
					return rule.category
				}
				continue
			}
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return models.SkillCategoryOther
}
