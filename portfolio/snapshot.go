package portfolio

import (
	"context"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/models"
)

// Builder reads a user's live state into a Document.
type Builder struct {
	db database.Database
}

func NewBuilder(db database.Database) Builder {
	return Builder{db: db}
}

// BuildSnapshot returns the current live portfolio of userID. It only reads.
func (b Builder) BuildSnapshot(ctx context.Context, userID uint) (Document, error) {
	return buildSnapshot(ctx, b.db, userID)
}

func buildSnapshot(ctx context.Context, db database.Database, userID uint) (Document, error) {
	user, err := db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return Document{}, err
	}

	profile, err := db.ProfileRepo().FindByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}
	projects, err := db.ProjectRepo().ListByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}
	skills, err := db.SkillRepo().ListByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}
	work, err := db.WorkExperienceRepo().ListByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}
	certificates, err := db.CertificateRepo().ListByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}
	awards, err := db.AwardRepo().ListByUser(ctx, userID)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Profile:         profileSection(*user, profile),
		Projects:        make([]ProjectEntry, 0, len(projects)),
		Skills:          make([]SkillEntry, 0, len(skills)),
		WorkExperiences: make([]WorkExperienceEntry, 0, len(work)),
		Certificates:    make([]CertificateEntry, 0, len(certificates)),
		Awards:          make([]AwardEntry, 0, len(awards)),
		Settings: SettingsSection{
			IsPublic:         user.IsPublic,
			ThemePreference:  user.Theme(),
			AnalyticsEnabled: user.AnalyticsEnabled,
		},
	}

	for _, p := range projects {
		doc.Projects = append(doc.Projects, ProjectEntry{
			ID:          p.ID,
			Title:       models.FlexString(p.Title),
			Description: models.FlexString(p.Description),
			Type:        models.FlexString(p.Type),
			Stack:       models.StringList(models.ListOrEmpty(p.Stack)),
			Features:    models.StringList(models.ListOrEmpty(p.Features)),
			Link:        models.FlexString(p.Link),
			Stars:       p.Stars,
			Forks:       p.Forks,
			Imported:    p.Imported,
			AISummary:   p.AISummary,
			Saved:       p.Saved,
		})
	}
	for _, s := range skills {
		doc.Skills = append(doc.Skills, SkillEntry{
			ID:         s.ID,
			Name:       models.FlexString(s.Name),
			Level:      models.FlexString(s.Level),
			Category:   models.FlexString(s.Category),
			Experience: models.FlexString(s.Experience),
		})
	}
	for _, w := range work {
		doc.WorkExperiences = append(doc.WorkExperiences, WorkExperienceEntry{
			ID:           w.ID,
			Title:        models.FlexString(w.Title),
			Organization: models.FlexString(w.Organization),
			Duration:     models.FlexString(w.Duration),
			Location:     models.FlexString(w.Location),
			Description:  models.FlexString(w.Description),
			Skills:       models.StringList(models.ListOrEmpty(w.Skills)),
			Status:       models.FlexString(w.Status),
		})
	}
	for _, c := range certificates {
		doc.Certificates = append(doc.Certificates, CertificateEntry{
			ID:           c.ID,
			Title:        models.FlexString(c.Title),
			Issuer:       models.FlexString(c.Issuer),
			Year:         models.FlexString(c.Year),
			CredentialID: models.FlexString(c.CredentialID),
			Description:  models.FlexString(c.Description),
		})
	}
	for _, a := range awards {
		doc.Awards = append(doc.Awards, AwardEntry{
			ID:           a.ID,
			Title:        models.FlexString(a.Title),
			Organization: models.FlexString(a.Organization),
			Year:         models.FlexString(a.Year),
			Description:  models.FlexString(a.Description),
			Category:     models.FlexString(a.Category),
		})
	}

	return doc, nil
}

// profileSection falls back to the account's name and email while the user
// has no profile row.
func profileSection(user models.User, profile *models.Profile) ProfileSection {
	if profile == nil {
		return ProfileSection{Name: user.DisplayName(), Email: user.Email}
	}
	return ProfileSection{
		Name:     profile.Name,
		Email:    profile.Email,
		Title:    profile.Title,
		Location: profile.Location,
		Bio:      profile.Bio,
		Github:   profile.Github,
		Linkedin: profile.Linkedin,
		Website:  profile.Website,
		Avatar:   profile.Avatar,
	}
}
