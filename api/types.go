package api

import "github.com/rpupo63/portfolia-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler    healthHandler
	profileHandler   profileHandler
	portfolioHandler portfolioHandler
	resumeHandler    resumeHandler
	projectHandler   resourceHandler[models.Project, *models.Project]
	skillHandler     resourceHandler[models.Skill, *models.Skill]
	workHandler      resourceHandler[models.WorkExperience, *models.WorkExperience]
	certHandler      resourceHandler[models.Certificate, *models.Certificate]
	awardHandler     resourceHandler[models.Award, *models.Award]
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}
