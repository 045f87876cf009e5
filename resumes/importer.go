package resumes

import (
	"context"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/metrics"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/validation"
	"github.com/rs/zerolog/log"
)

// ImportResult counts the rows a merge actually inserted.
type ImportResult struct {
	ProfileUpdated      bool `json:"profile_updated"`
	WorkExperienceAdded int  `json:"work_experience_added"`
	ProjectsAdded       int  `json:"projects_added"`
	SkillsAdded         int  `json:"skills_added"`
	CertificationsAdded int  `json:"certifications_added"`
	AchievementsAdded   int  `json:"achievements_added"`
}

// Importer merges extracted resume data into the live portfolio. Unlike
// publishing it only ever adds: existing rows are never removed and an
// incoming entry that matches an existing row is skipped.
type Importer struct {
	db database.Database
}

func NewImporter(db database.Database) Importer {
	return Importer{db: db}
}

// Merge imports data for userID in one transaction under the user's row
// lock.
func (im Importer) Merge(ctx context.Context, userID uint, data ExtractedData) (ImportResult, error) {
	return im.run(ctx, userID, data, nil)
}

// ConfirmResume is Merge for the data of a pending upload: the resume must
// belong to the user and not be confirmed yet, and is marked saved in the
// same transaction.
func (im Importer) ConfirmResume(ctx context.Context, userID, resumeID uint, data ExtractedData) (ImportResult, error) {
	return im.run(ctx, userID, data, func(tx database.Database) error {
		resume, err := tx.ResumeRepo().FindUnsaved(ctx, userID, resumeID)
		if err != nil {
			return err
		}
		return tx.ResumeRepo().MarkSaved(ctx, resume.ID)
	})
}

func (im Importer) run(ctx context.Context, userID uint, data ExtractedData, before func(tx database.Database) error) (ImportResult, error) {
	data.Normalize()
	if err := validation.ValidateStruct(data); err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	err := im.db.Transaction(ctx, func(tx database.Database) error {
		user, err := tx.UserRepo().LockByID(ctx, userID)
		if err != nil {
			return err
		}
		if before != nil {
			if err := before(tx); err != nil {
				return err
			}
		}

		m := merger{ctx: ctx, tx: tx, user: *user}
		result = ImportResult{}
		if result.ProfileUpdated, err = m.profile(data); err != nil {
			return err
		}
		if result.ProjectsAdded, err = m.projects(data.Projects); err != nil {
			return err
		}
		if result.SkillsAdded, err = m.skills(data.Skills); err != nil {
			return err
		}
		if result.WorkExperienceAdded, err = m.work(data.WorkExperience); err != nil {
			return err
		}
		if result.CertificationsAdded, err = m.certificates(data.Certifications); err != nil {
			return err
		}
		result.AchievementsAdded, err = m.achievements(data.Achievements)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("resume import rolled back")
		return ImportResult{}, errs.NewDatabaseError("import", "resume data", err)
	}

	metrics.AddImportedRows("projects", result.ProjectsAdded)
	metrics.AddImportedRows("skills", result.SkillsAdded)
	metrics.AddImportedRows("work_experience", result.WorkExperienceAdded)
	metrics.AddImportedRows("certifications", result.CertificationsAdded)
	metrics.AddImportedRows("achievements", result.AchievementsAdded)
	log.Info().Uint("userID", userID).Interface("result", result).Msg("resume data imported")
	return result, nil
}

// merger holds one import transaction. Rows are inserted one by one so
// that a duplicate later in the same payload sees the earlier insert.
type merger struct {
	ctx  context.Context
	tx   database.Database
	user models.User
}

func (m merger) profile(d ExtractedData) (bool, error) {
	profile, err := m.tx.ProfileRepo().FindByUser(m.ctx, m.user.ID)
	if err != nil {
		return false, err
	}
	created := profile == nil
	if created {
		profile = &models.Profile{UserID: m.user.ID, Name: m.user.DisplayName(), Email: m.user.Email}
	}

	changed := created
	set := func(dst *string, v models.FlexString) {
		if v != "" && *dst != string(v) {
			*dst = string(v)
			changed = true
		}
	}
	set(&profile.Name, d.Name)
	set(&profile.Email, d.Email)
	set(&profile.Title, d.Title)
	set(&profile.Location, d.Location)
	set(&profile.Bio, d.About)
	set(&profile.Github, d.Github)
	set(&profile.Linkedin, d.Linkedin)
	set(&profile.Website, d.Website)

	if !changed {
		return false, nil
	}
	return true, m.tx.ProfileRepo().Save(m.ctx, profile)
}

func (m merger) projects(items []ExtractedProject) (int, error) {
	repo := m.tx.ProjectRepo()
	added := 0
	for _, p := range items {
		exists, err := repo.ExistsWhere(m.ctx, m.user.ID, "title = ?", string(p.Title))
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		err = repo.Add(m.ctx, &models.Project{
			UserID:      m.user.ID,
			Title:       string(p.Title),
			Description: string(p.Description),
			Type:        models.ProjectTypeResume,
			Stack:       p.Tech.JSONSlice(),
			Features:    p.Features.JSONSlice(),
			Imported:    true,
			AISummary:   true,
			Saved:       true,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (m merger) skills(items []ExtractedSkill) (int, error) {
	repo := m.tx.SkillRepo()
	added := 0
	for _, s := range items {
		exists, err := repo.ExistsWhere(m.ctx, m.user.ID, "name = ?", string(s.Name))
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		err = repo.Add(m.ctx, &models.Skill{
			UserID:   m.user.ID,
			Name:     string(s.Name),
			Level:    string(s.Level),
			Category: string(s.Category),
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (m merger) work(items []ExtractedWork) (int, error) {
	repo := m.tx.WorkExperienceRepo()
	added := 0
	for _, w := range items {
		exists, err := repo.ExistsWhere(m.ctx, m.user.ID, "title = ? AND organization = ?", string(w.Title), string(w.Company))
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		err = repo.Add(m.ctx, &models.WorkExperience{
			UserID:       m.user.ID,
			Title:        string(w.Title),
			Organization: string(w.Company),
			Duration:     string(w.Duration),
			Location:     string(w.Location),
			Description:  string(w.Description),
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (m merger) certificates(items []ExtractedCertificate) (int, error) {
	repo := m.tx.CertificateRepo()
	added := 0
	for _, c := range items {
		exists, err := repo.ExistsWhere(m.ctx, m.user.ID, "title = ?", string(c.Name))
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		err = repo.Add(m.ctx, &models.Certificate{
			UserID:      m.user.ID,
			Title:       string(c.Name),
			Issuer:      string(c.Issuer),
			Year:        string(c.Year),
			Description: string(c.Description),
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (m merger) achievements(items []ExtractedAchievement) (int, error) {
	repo := m.tx.AwardRepo()
	added := 0
	for _, a := range items {
		exists, err := repo.ExistsWhere(m.ctx, m.user.ID, "title = ?", string(a.Title))
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		err = repo.Add(m.ctx, &models.Award{
			UserID:       m.user.ID,
			Title:        string(a.Title),
			Organization: string(a.Issuer),
			Year:         string(a.Date),
			Description:  string(a.Description),
			Category:     string(a.Type),
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
