package resumes

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FileStore is the part of object storage the upload flow needs.
type FileStore interface {
	Upload(ctx context.Context, userID uint, filename string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// TextExtractor returns the plain text of an uploaded file.
type TextExtractor func(filename string, data []byte) (string, error)

type UploadResult struct {
	ResumeID      uint          `json:"resume_id"`
	ExtractedData ExtractedData `json:"extracted_data"`
	Message       string        `json:"message"`
}

// Uploads manages resume files awaiting review.
type Uploads struct {
	db      database.Database
	store   FileStore
	extract TextExtractor
	parser  Parser
}

func NewUploads(db database.Database, store FileStore, extract TextExtractor, parser Parser) Uploads {
	return Uploads{db: db, store: store, extract: extract, parser: parser}
}

// Upload stores the file and parses it concurrently. On success any earlier
// unconfirmed resume of the user is replaced by the new one; on failure
// nothing is kept.
func (u Uploads) Upload(ctx context.Context, userID uint, filename, fileType string, data []byte) (UploadResult, error) {
	var (
		storagePath string
		text        string
		extracted   ExtractedData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := u.store.Upload(gctx, userID, filename, data)
		storagePath = path
		return err
	})
	g.Go(func() error {
		var err error
		text, err = u.extract(filename, data)
		if err != nil {
			return errs.NewUnprocessableError("file", "could not read the resume: "+err.Error())
		}
		extracted, err = u.parser.Parse(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		u.discard(storagePath)
		return UploadResult{}, err
	}

	parsed, err := json.Marshal(extracted)
	if err != nil {
		u.discard(storagePath)
		return UploadResult{}, errs.NewInternalErrorWithCause("failed to encode extracted data", err)
	}

	resume := &models.Resume{
		UserID:        userID,
		Filename:      filename,
		FileType:      fileType,
		StoragePath:   storagePath,
		ExtractedText: text,
		ParsedData:    parsed,
	}
	var replaced []models.Resume
	err = u.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		if replaced, err = tx.ResumeRepo().DeleteUnsaved(ctx, userID); err != nil {
			return err
		}
		return tx.ResumeRepo().Add(ctx, resume)
	})
	if err != nil {
		u.discard(storagePath)
		return UploadResult{}, errs.NewDatabaseError("create", "resume", err)
	}

	for _, old := range replaced {
		u.discard(old.StoragePath)
	}
	log.Info().Uint("userID", userID).Uint("resumeID", resume.ID).Str("fileType", fileType).Msg("resume uploaded")

	return UploadResult{
		ResumeID:      resume.ID,
		ExtractedData: extracted,
		Message:       "Resume parsed successfully. Review the extracted data before saving it to your portfolio.",
	}, nil
}

// LatestDraft returns the data of the newest unconfirmed upload.
func (u Uploads) LatestDraft(ctx context.Context, userID uint) (*models.Resume, ExtractedData, error) {
	resume, err := u.db.ResumeRepo().FindLatestUnsaved(ctx, userID)
	if err != nil {
		return nil, ExtractedData{}, err
	}
	data, err := DecodeStored(resume.ParsedData)
	if err != nil {
		return nil, ExtractedData{}, err
	}
	return resume, data, nil
}

func (u Uploads) History(ctx context.Context, userID uint) ([]models.Resume, error) {
	return u.db.ResumeRepo().History(ctx, userID)
}

// Delete removes a resume of the user along with its file.
func (u Uploads) Delete(ctx context.Context, userID, id uint) error {
	resume, err := u.db.ResumeRepo().FindOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := u.db.ResumeRepo().DeleteOwned(ctx, userID, id); err != nil {
		return err
	}
	u.discard(resume.StoragePath)
	return nil
}

// DecodeStored reads parsed_data back into ExtractedData.
func DecodeStored(raw []byte) (ExtractedData, error) {
	var data ExtractedData
	if len(raw) == 0 {
		data.Normalize()
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, errs.NewInternalErrorWithCause("stored resume data is corrupt", err)
	}
	data.Normalize()
	return data, nil
}

// discard deletes a stored file. Failures are only logged.
func (u Uploads) discard(path string) {
	if path == "" {
		return
	}
	if err := u.store.Delete(context.Background(), path); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("path", path).Msg("failed to delete stored resume file")
	}
}
