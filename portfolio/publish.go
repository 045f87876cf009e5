package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/metrics"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/validation"
	"github.com/rs/zerolog/log"
)

// Publisher replaces a user's live portfolio with the contents of the draft.
type Publisher struct {
	db database.Database
}

func NewPublisher(db database.Database) Publisher {
	return Publisher{db: db}
}

type publishDocument struct {
	Profile         ProfilePatch
	Projects        []ProjectEntry
	Skills          []SkillEntry
	WorkExperiences []WorkExperienceEntry
	Certificates    []CertificateEntry
	Awards          []AwardEntry
	Settings        SettingsPatch
}

// Publish runs as a single transaction holding the user's row lock: either
// the whole draft becomes live or nothing changes. The draft itself is left
// in place.
func (p Publisher) Publish(ctx context.Context, userID uint) error {
	err := p.db.Transaction(ctx, func(tx database.Database) error {
		user, err := tx.UserRepo().LockByID(ctx, userID)
		if err != nil {
			return err
		}

		draft, err := tx.DraftRepo().FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if draft == nil {
			return errs.NewNotFoundError("no draft found to publish. Save a draft first")
		}

		doc, err := decodeForPublish(draft.Data)
		if err != nil {
			return err
		}

		if err := clearCollections(ctx, tx, userID); err != nil {
			return err
		}
		if err := upsertProfile(ctx, tx, *user, doc.Profile); err != nil {
			return err
		}
		if err := insertCollections(ctx, tx, userID, doc); err != nil {
			return err
		}

		settings, err := doc.Settings.Resolve(*user)
		if err != nil {
			return errs.NewValidationError("settings.theme_preference", err.Error())
		}
		return tx.UserRepo().UpdateSettings(ctx, userID, settings.IsPublic, settings.ThemePreference, settings.AnalyticsEnabled)
	})
	metrics.ObservePublish(err)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("publish rolled back")
		return errs.NewDatabaseError("publish", "portfolio", err)
	}

	log.Info().Uint("userID", userID).Msg("portfolio published")
	return nil
}

func decodeForPublish(data []byte) (publishDocument, error) {
	var doc publishDocument
	if err := CheckDocument(data); err != nil {
		return doc, err
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return doc, errs.NewValidationError("data", "draft data must be a JSON object")
	}

	targets := map[string]any{
		KeyProfile:         &doc.Profile,
		KeyProjects:        &doc.Projects,
		KeySkills:          &doc.Skills,
		KeyWorkExperiences: &doc.WorkExperiences,
		KeyCertificates:    &doc.Certificates,
		KeyAwards:          &doc.Awards,
		KeySettings:        &doc.Settings,
	}
	for _, key := range RequiredKeys {
		raw := sections[key]
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(raw, targets[key]); err != nil {
			return doc, errs.NewValidationError(key, fmt.Sprintf("malformed %s section: %v", key, err))
		}
	}
	return doc, nil
}

func clearCollections(ctx context.Context, tx database.Database, userID uint) error {
	deletes := []func(context.Context, uint) (int64, error){
		tx.ProjectRepo().DeleteAllForUser,
		tx.SkillRepo().DeleteAllForUser,
		tx.WorkExperienceRepo().DeleteAllForUser,
		tx.CertificateRepo().DeleteAllForUser,
		tx.AwardRepo().DeleteAllForUser,
	}
	for _, del := range deletes {
		if _, err := del(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

func upsertProfile(ctx context.Context, tx database.Database, user models.User, patch ProfilePatch) error {
	profile, err := tx.ProfileRepo().FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &models.Profile{UserID: user.ID, Name: user.DisplayName(), Email: user.Email}
	}
	patch.ApplyProfile(profile)
	return tx.ProfileRepo().Save(ctx, profile)
}

func insertCollections(ctx context.Context, tx database.Database, userID uint, doc publishDocument) error {
	projects := make([]*models.Project, len(doc.Projects))
	for i, e := range doc.Projects {
		projects[i] = e.toModel(userID)
	}
	if err := insertAll(ctx, tx.ProjectRepo(), KeyProjects, projects); err != nil {
		return err
	}

	skills := make([]*models.Skill, len(doc.Skills))
	for i, e := range doc.Skills {
		skills[i] = e.toModel(userID)
	}
	if err := insertAll(ctx, tx.SkillRepo(), KeySkills, skills); err != nil {
		return err
	}

	work := make([]*models.WorkExperience, len(doc.WorkExperiences))
	for i, e := range doc.WorkExperiences {
		work[i] = e.toModel(userID)
	}
	if err := insertAll(ctx, tx.WorkExperienceRepo(), KeyWorkExperiences, work); err != nil {
		return err
	}

	certificates := make([]*models.Certificate, len(doc.Certificates))
	for i, e := range doc.Certificates {
		certificates[i] = e.toModel(userID)
	}
	if err := insertAll(ctx, tx.CertificateRepo(), KeyCertificates, certificates); err != nil {
		return err
	}

	awards := make([]*models.Award, len(doc.Awards))
	for i, e := range doc.Awards {
		awards[i] = e.toModel(userID)
	}
	return insertAll(ctx, tx.AwardRepo(), KeyAwards, awards)
}

// insertAll validates and inserts rows in order. The first invalid row
// aborts with an error naming it, e.g. "awards[1].title".
func insertAll[T any, PT interface {
	*T
	models.Owned
}](ctx context.Context, repo *database.OwnedRepo[T, PT], key string, rows []PT) error {
	for i, row := range rows {
		if err := validation.ValidateStructAt(fmt.Sprintf("%s[%d]", key, i), row); err != nil {
			return err
		}
		if err := repo.Add(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
