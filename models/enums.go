package models

import "strings"

const (
	ThemeClassic  = "classic"
	ThemeCreative = "creative"
	ThemeModern   = "modern"
)

var Themes = []string{ThemeClassic, ThemeCreative, ThemeModern}

func IsValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

const (
	SkillLevelBeginner     = "Beginner"
	SkillLevelIntermediate = "Intermediate"
	SkillLevelAdvanced     = "Advanced"
)

var SkillLevels = []string{SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced}

const (
	SkillCategoryFrontend = "Frontend"
	SkillCategoryBackend  = "Backend"
	SkillCategoryDatabase = "Database"
	SkillCategoryDevOps   = "DevOps"
	SkillCategoryCloud    = "Cloud"
	SkillCategoryAIML     = "AI/ML"
	SkillCategoryMobile   = "Mobile"
	SkillCategoryOther    = "Other"
)

var SkillCategories = []string{
	SkillCategoryFrontend,
	SkillCategoryBackend,
	SkillCategoryDatabase,
	SkillCategoryDevOps,
	SkillCategoryCloud,
	SkillCategoryAIML,
	SkillCategoryMobile,
	SkillCategoryOther,
}

// CanonicalSkillLevel matches value case-insensitively against the known
// levels. An empty value yields the default level.
func CanonicalSkillLevel(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return SkillLevelIntermediate, true
	}
	return canonical(value, SkillLevels)
}

// CanonicalSkillCategory matches value case-insensitively against the known
// categories. An empty value yields Other.
func CanonicalSkillCategory(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return SkillCategoryOther, true
	}
	return canonical(value, SkillCategories)
}

func canonical(value string, allowed []string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, true
		}
	}
	return "", false
}

const (
	ProjectTypeManual = "manual"
	ProjectTypeGithub = "github"
	ProjectTypeResume = "resume"
)
