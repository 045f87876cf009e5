package resumes

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/datatypes"
)

func TestMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "ada")
	im := NewImporter(db)

	data := ExtractedData{Projects: []ExtractedProject{{Title: "X"}}}

	first, err := im.Merge(ctx, user.ID, data)
	if err != nil {
		t.Fatalf("first Merge() error = %v", err)
	}
	if first.ProjectsAdded != 1 {
		t.Errorf("first projects_added = %d, want 1", first.ProjectsAdded)
	}

	second, err := im.Merge(ctx, user.ID, data)
	if err != nil {
		t.Fatalf("second Merge() error = %v", err)
	}
	if second.ProjectsAdded != 0 {
		t.Errorf("second projects_added = %d, want 0", second.ProjectsAdded)
	}

	projects, err := db.ProjectRepo().ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "X" {
		t.Fatalf("projects = %+v, want exactly one titled X", projects)
	}
	p := projects[0]
	if p.Type != models.ProjectTypeResume || !p.Imported || !p.AISummary || !p.Saved {
		t.Errorf("imported project flags = %+v", p)
	}
}

func TestMergeDedupRules(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "grace")

	if err := db.SkillRepo().Add(ctx, &models.Skill{UserID: user.ID, Name: "Go", Level: "Advanced", Category: "Backend"}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	if err := db.WorkExperienceRepo().Add(ctx, &models.WorkExperience{UserID: user.ID, Title: "Engineer", Organization: "Acme"}); err != nil {
		t.Fatalf("seed work: %v", err)
	}

	result, err := NewImporter(db).Merge(ctx, user.ID, ExtractedData{
		Skills: []ExtractedSkill{
			{Name: "Go", Level: "beginner"},
			{Name: "SQL", Category: "databases"},
			{Name: "SQL"},
		},
		WorkExperience: []ExtractedWork{
			{Title: "Engineer", Company: "Acme"},
			{Title: "Engineer", Company: "Globex", Location: "Berlin"},
		},
		Certifications: []ExtractedCertificate{{Name: "CKA"}, {Name: "CKA", Issuer: "Other body"}},
		Achievements:   []ExtractedAchievement{{Title: "Winner", Date: "2020"}},
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := ImportResult{
		ProfileUpdated:      true,
		SkillsAdded:         1,
		WorkExperienceAdded: 1,
		CertificationsAdded: 1,
		AchievementsAdded:   1,
	}
	if result != want {
		t.Errorf("result = %+v, want %+v", result, want)
	}

	skills, _ := db.SkillRepo().ListByUser(ctx, user.ID)
	if len(skills) != 2 || skills[0].Level != "Advanced" {
		t.Errorf("skills = %+v, existing Go skill must be untouched", skills)
	}
	if skills[1].Category != models.SkillCategoryDatabase || skills[1].Level != models.SkillLevelIntermediate {
		t.Errorf("new skill = %+v", skills[1])
	}

	work, _ := db.WorkExperienceRepo().ListByUser(ctx, user.ID)
	if len(work) != 2 || work[1].Location != "Berlin" {
		t.Errorf("work = %+v", work)
	}

	awards, _ := db.AwardRepo().ListByUser(ctx, user.ID)
	if len(awards) != 1 || awards[0].Year != "2020" || awards[0].Category != "award" {
		t.Errorf("awards = %+v", awards)
	}
}

func TestMergeProfile(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "linus")
	im := NewImporter(db)

	// No profile yet: defaults come from the account.
	if _, err := im.Merge(ctx, user.ID, ExtractedData{Title: "Kernel hacker"}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	profile, err := db.ProfileRepo().FindByUser(ctx, user.ID)
	if err != nil || profile == nil {
		t.Fatalf("FindByUser() = %v, %v", profile, err)
	}
	if profile.Name != user.FullName || profile.Email != user.Email || profile.Title != "Kernel hacker" {
		t.Errorf("created profile = %+v", profile)
	}

	// Empty incoming fields never blank populated ones.
	result, err := im.Merge(ctx, user.ID, ExtractedData{About: "Writes C", Title: ""})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !result.ProfileUpdated {
		t.Error("profile_updated = false, want true")
	}
	profile, _ = db.ProfileRepo().FindByUser(ctx, user.ID)
	if profile.Title != "Kernel hacker" || profile.Bio != "Writes C" {
		t.Errorf("merged profile = %+v", profile)
	}

	result, err = im.Merge(ctx, user.ID, ExtractedData{About: "Writes C"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if result.ProfileUpdated {
		t.Error("profile_updated = true for identical data")
	}
}

func TestMergeRejectsIncompleteEntries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "ken")

	_, err := NewImporter(db).Merge(ctx, user.ID, ExtractedData{
		Projects: []ExtractedProject{{Title: "Fine"}, {Description: "untitled"}},
	})
	if !errs.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.Field != "projects[1].title" {
		t.Errorf("field = %q, want projects[1].title", apiErr.Field)
	}
	if n, _ := db.ProjectRepo().CountByUser(ctx, user.ID); n != 0 {
		t.Errorf("projects = %d, want none", n)
	}
}

func TestMergeUnknownUser(t *testing.T) {
	db := newTestDB(t)
	_, err := NewImporter(db).Merge(context.Background(), 404, ExtractedData{})
	if got := errs.StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestConfirmResume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "barbara")
	other := seedUser(t, db, "mallory")

	resume := &models.Resume{UserID: user.ID, Filename: "cv.pdf", FileType: models.ResumeFileTypePDF, ParsedData: datatypes.JSON(`{}`)}
	if err := db.ResumeRepo().Add(ctx, resume); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	data := ExtractedData{Skills: []ExtractedSkill{{Name: "CLU"}}}
	im := NewImporter(db)

	if _, err := im.ConfirmResume(ctx, other.ID, resume.ID, data); errs.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("foreign confirm error = %v, want 404", err)
	}

	result, err := im.ConfirmResume(ctx, user.ID, resume.ID, data)
	if err != nil {
		t.Fatalf("ConfirmResume() error = %v", err)
	}
	if result.SkillsAdded != 1 {
		t.Errorf("skills_added = %d, want 1", result.SkillsAdded)
	}

	saved, err := db.ResumeRepo().FindOwned(ctx, user.ID, resume.ID)
	if err != nil {
		t.Fatalf("FindOwned() error = %v", err)
	}
	if !saved.IsSaved {
		t.Error("resume not marked saved")
	}

	_, err = im.ConfirmResume(ctx, user.ID, resume.ID, data)
	if !errs.IsNotFound(err) {
		t.Fatalf("second confirm error = %v, want not found", err)
	}
}
