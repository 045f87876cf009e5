package models

// All returns every persisted model, parents first, for migrations and code
// generation.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Project{},
		&Skill{},
		&WorkExperience{},
		&Certificate{},
		&Award{},
		&PortfolioDraft{},
		&Resume{},
	}
}

// TableModels maps table names to their model for schema reports.
func TableModels() map[string]any {
	return map[string]any{
		"users":            User{},
		"profiles":         Profile{},
		"projects":         Project{},
		"skills":           Skill{},
		"work_experiences": WorkExperience{},
		"certificates":     Certificate{},
		"awards":           Award{},
		"portfolio_drafts": PortfolioDraft{},
		"resumes":          Resume{},
	}
}
