package database

import (
	"context"

	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type (
	ProjectRepo        = OwnedRepo[models.Project, *models.Project]
	SkillRepo          = OwnedRepo[models.Skill, *models.Skill]
	WorkExperienceRepo = OwnedRepo[models.WorkExperience, *models.WorkExperience]
	CertificateRepo    = OwnedRepo[models.Certificate, *models.Certificate]
	AwardRepo          = OwnedRepo[models.Award, *models.Award]
)

type Database struct {
	db                 *gorm.DB
	userRepo           *UserRepo
	profileRepo        *ProfileRepo
	projectRepo        *ProjectRepo
	skillRepo          *SkillRepo
	workExperienceRepo *WorkExperienceRepo
	certificateRepo    *CertificateRepo
	awardRepo          *AwardRepo
	draftRepo          *DraftRepo
	resumeRepo         *ResumeRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                 db,
		userRepo:           NewUserRepo(db),
		profileRepo:        NewProfileRepo(db),
		projectRepo:        NewOwnedRepo[models.Project](db, "project"),
		skillRepo:          NewOwnedRepo[models.Skill](db, "skill"),
		workExperienceRepo: NewOwnedRepo[models.WorkExperience](db, "work experience"),
		certificateRepo:    NewOwnedRepo[models.Certificate](db, "certificate"),
		awardRepo:          NewOwnedRepo[models.Award](db, "award"),
		draftRepo:          NewDraftRepo(db),
		resumeRepo:         NewResumeRepo(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on error, panic or
// cancellation of ctx.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Primary pins reads to the primary when read replicas are configured, for
// read-then-write sequences that cannot tolerate replica lag.
func (d Database) Primary() Database {
	return New(d.db.Clauses(dbresolver.Write))
}

// Migrate creates or updates every table.
func (d Database) Migrate(ctx context.Context) error {
	return d.db.WithContext(ctx).AutoMigrate(models.All()...)
}

// Ping checks the connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Accessor methods for each repository

func (d Database) GetDB() *gorm.DB {
	return d.db
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) WorkExperienceRepo() *WorkExperienceRepo {
	return d.workExperienceRepo
}

func (d Database) CertificateRepo() *CertificateRepo {
	return d.certificateRepo
}

func (d Database) AwardRepo() *AwardRepo {
	return d.awardRepo
}

func (d Database) DraftRepo() *DraftRepo {
	return d.draftRepo
}

func (d Database) ResumeRepo() *ResumeRepo {
	return d.resumeRepo
}
