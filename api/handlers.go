package api

import (
	"time"

	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/resumes"
	"github.com/rpupo63/portfolia-backend/services"
)

// Dependencies are the external services the handlers call into.
type Dependencies struct {
	Storage services.FileStorage
	LLM     resumes.Completer
	Extract resumes.TextExtractor
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, cfg *config.Config, deps Dependencies, startupTime time.Time) *routeHandlers {
	extract := deps.Extract
	if extract == nil {
		extract = services.ExtractText
	}
	parser := resumes.NewParser(deps.LLM, cfg.AI.MaxResumeChars)

	return &routeHandlers{
		healthHandler:    newHealthHandler(db, startupTime),
		profileHandler:   newProfileHandler(db),
		portfolioHandler: newPortfolioHandler(db),
		resumeHandler: newResumeHandler(
			resumes.NewUploads(db, deps.Storage, extract, parser),
			resumes.NewImporter(db),
			cfg.Resume.MaxUploadBytes,
		),
		projectHandler: newResourceHandler(db.ProjectRepo()),
		skillHandler:   newResourceHandler(db.SkillRepo()),
		workHandler:    newResourceHandler(db.WorkExperienceRepo()),
		certHandler:    newResourceHandler(db.CertificateRepo()),
		awardHandler:   newResourceHandler(db.AwardRepo()),
	}
}
