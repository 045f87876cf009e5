// Package portfolio builds, stores and publishes the editable portfolio
// document: one JSON object with seven top-level sections that mirrors the
// user's live profile, collections and settings.
package portfolio

import (
	"fmt"

	"github.com/rpupo63/portfolia-backend/models"
)

const (
	KeyProfile         = "profile"
	KeyProjects        = "projects"
	KeySkills          = "skills"
	KeyWorkExperiences = "work_experiences"
	KeyCertificates    = "certificates"
	KeyAwards          = "awards"
	KeySettings        = "settings"
)

// RequiredKeys lists the top-level keys every stored draft must carry, in
// the order they are reported when missing.
var RequiredKeys = []string{
	KeyProfile,
	KeyProjects,
	KeySkills,
	KeyWorkExperiences,
	KeyCertificates,
	KeyAwards,
	KeySettings,
}

// Document is the snapshot form of a portfolio. Lists are never nil so they
// serialise as [] rather than null.
type Document struct {
	Profile         ProfileSection        `json:"profile"`
	Projects        []ProjectEntry        `json:"projects"`
	Skills          []SkillEntry          `json:"skills"`
	WorkExperiences []WorkExperienceEntry `json:"work_experiences"`
	Certificates    []CertificateEntry    `json:"certificates"`
	Awards          []AwardEntry          `json:"awards"`
	Settings        SettingsSection       `json:"settings"`
}

type ProfileSection struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
	Website  string `json:"website"`
	Avatar   string `json:"avatar"`
}

type SettingsSection struct {
	IsPublic         bool   `json:"is_public"`
	ThemePreference  string `json:"theme_preference"`
	AnalyticsEnabled bool   `json:"analytics_enabled"`
}

// Entry types are shared by snapshots (ID set from the live row) and
// publishing (ID ignored). ID is untyped so that whatever a client left in
// it never blocks a publish.

type ProjectEntry struct {
	ID          any               `json:"id,omitempty"`
	Title       models.FlexString `json:"title"`
	Description models.FlexString `json:"description"`
	Type        models.FlexString `json:"type"`
	Stack       models.StringList `json:"stack"`
	Features    models.StringList `json:"features"`
	Link        models.FlexString `json:"link"`
	Stars       int               `json:"stars"`
	Forks       int               `json:"forks"`
	Imported    bool              `json:"imported"`
	AISummary   bool              `json:"ai_summary"`
	Saved       bool              `json:"saved"`
}

type SkillEntry struct {
	ID         any               `json:"id,omitempty"`
	Name       models.FlexString `json:"name"`
	Level      models.FlexString `json:"level"`
	Category   models.FlexString `json:"category"`
	Experience models.FlexString `json:"experience"`
}

type WorkExperienceEntry struct {
	ID           any               `json:"id,omitempty"`
	Title        models.FlexString `json:"title"`
	Organization models.FlexString `json:"organization"`
	Duration     models.FlexString `json:"duration"`
	Location     models.FlexString `json:"location"`
	Description  models.FlexString `json:"description"`
	Skills       models.StringList `json:"skills"`
	Status       models.FlexString `json:"status"`
}

type CertificateEntry struct {
	ID           any               `json:"id,omitempty"`
	Title        models.FlexString `json:"title"`
	Issuer       models.FlexString `json:"issuer"`
	Year         models.FlexString `json:"year"`
	CredentialID models.FlexString `json:"credential_id"`
	Description  models.FlexString `json:"description"`
}

type AwardEntry struct {
	ID           any               `json:"id,omitempty"`
	Title        models.FlexString `json:"title"`
	Organization models.FlexString `json:"organization"`
	Year         models.FlexString `json:"year"`
	Description  models.FlexString `json:"description"`
	Category     models.FlexString `json:"category"`
}

// ProfilePatch and SettingsPatch are the whitelists applied on publish and
// on profile updates. A nil field means "key absent, keep current value".

type ProfilePatch struct {
	Name     *models.FlexString `json:"name"`
	Email    *models.FlexString `json:"email"`
	Title    *models.FlexString `json:"title"`
	Location *models.FlexString `json:"location"`
	Bio      *models.FlexString `json:"bio"`
	Github   *models.FlexString `json:"github"`
	Linkedin *models.FlexString `json:"linkedin"`
	Website  *models.FlexString `json:"website"`
	Avatar   *models.FlexString `json:"avatar"`
}

type SettingsPatch struct {
	IsPublic         *bool   `json:"is_public"`
	ThemePreference  *string `json:"theme_preference"`
	AnalyticsEnabled *bool   `json:"analytics_enabled"`
}

// ApplyProfile copies present patch fields onto profile.
func (p ProfilePatch) ApplyProfile(profile *models.Profile) {
	assign := func(dst *string, v *models.FlexString) {
		if v != nil {
			*dst = string(*v)
		}
	}
	assign(&profile.Name, p.Name)
	assign(&profile.Email, p.Email)
	assign(&profile.Title, p.Title)
	assign(&profile.Location, p.Location)
	assign(&profile.Bio, p.Bio)
	assign(&profile.Github, p.Github)
	assign(&profile.Linkedin, p.Linkedin)
	assign(&profile.Website, p.Website)
	assign(&profile.Avatar, p.Avatar)
}

// Resolve merges the patch over the user's current settings. An unknown
// theme is rejected.
func (p SettingsPatch) Resolve(current models.User) (SettingsSection, error) {
	out := SettingsSection{
		IsPublic:         current.IsPublic,
		ThemePreference:  current.Theme(),
		AnalyticsEnabled: current.AnalyticsEnabled,
	}
	if p.IsPublic != nil {
		out.IsPublic = *p.IsPublic
	}
	if p.AnalyticsEnabled != nil {
		out.AnalyticsEnabled = *p.AnalyticsEnabled
	}
	if p.ThemePreference != nil {
		if !models.IsValidTheme(*p.ThemePreference) {
			return out, fmt.Errorf("theme_preference must be one of %v", models.Themes)
		}
		out.ThemePreference = *p.ThemePreference
	}
	return out, nil
}

func (e ProjectEntry) toModel(userID uint) *models.Project {
	return &models.Project{
		UserID:      userID,
		Title:       string(e.Title),
		Description: string(e.Description),
		Type:        string(e.Type),
		Stack:       e.Stack.JSONSlice(),
		Features:    e.Features.JSONSlice(),
		Link:        string(e.Link),
		Stars:       e.Stars,
		Forks:       e.Forks,
		Imported:    e.Imported,
		AISummary:   e.AISummary,
		Saved:       e.Saved,
	}
}

func (e SkillEntry) toModel(userID uint) *models.Skill {
	skill := &models.Skill{
		UserID:     userID,
		Name:       string(e.Name),
		Level:      string(e.Level),
		Category:   string(e.Category),
		Experience: string(e.Experience),
	}
	skill.Canonicalize()
	return skill
}

func (e WorkExperienceEntry) toModel(userID uint) *models.WorkExperience {
	return &models.WorkExperience{
		UserID:       userID,
		Title:        string(e.Title),
		Organization: string(e.Organization),
		Duration:     string(e.Duration),
		Location:     string(e.Location),
		Description:  string(e.Description),
		Skills:       e.Skills.JSONSlice(),
		Status:       string(e.Status),
	}
}

func (e CertificateEntry) toModel(userID uint) *models.Certificate {
	return &models.Certificate{
		UserID:       userID,
		Title:        string(e.Title),
		Issuer:       string(e.Issuer),
		Year:         string(e.Year),
		CredentialID: string(e.CredentialID),
		Description:  string(e.Description),
	}
}

func (e AwardEntry) toModel(userID uint) *models.Award {
	return &models.Award{
		UserID:       userID,
		Title:        string(e.Title),
		Organization: string(e.Organization),
		Year:         string(e.Year),
		Description:  string(e.Description),
		Category:     string(e.Category),
	}
}
