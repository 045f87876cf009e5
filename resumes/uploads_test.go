package resumes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
)

type fakeStore struct {
	mu      sync.Mutex
	next    int
	files   map[string][]byte
	deleted []string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) Upload(ctx context.Context, userID uint, filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.next++
	path := fmt.Sprintf("resumes/%d/%d-%s", userID, s.next, filename)
	s.files[path] = data
	return path, nil
}

func (s *fakeStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func plainText(filename string, data []byte) (string, error) {
	return string(data), nil
}

const parsedReply = `{"name": "Ada", "skills": [{"name": "Go", "level": "expert"}]}`

func TestUploadReplacesPendingResume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "ada")
	store := newFakeStore()
	uploads := NewUploads(db, store, plainText, NewParser(&fakeCompleter{reply: parsedReply}, 0))

	first, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("Ada Lovelace"))
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := uploads.Upload(ctx, user.ID, "cv2.docx", models.ResumeFileTypeDOCX, []byte("Ada Lovelace v2"))
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}
	if second.ExtractedData.Skills[0].Level != models.SkillLevelAdvanced {
		t.Errorf("extracted skill = %+v", second.ExtractedData.Skills[0])
	}

	history, err := uploads.History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].ID != second.ResumeID {
		t.Fatalf("history = %+v, want only the second upload", history)
	}
	if history[0].ID == first.ResumeID {
		t.Error("first upload survived")
	}
	if store.count() != 1 {
		t.Errorf("stored files = %d, want 1", store.count())
	}

	resume, data, err := uploads.LatestDraft(ctx, user.ID)
	if err != nil {
		t.Fatalf("LatestDraft() error = %v", err)
	}
	if resume.Filename != "cv2.docx" || resume.ExtractedText != "Ada Lovelace v2" || data.Name != "Ada" {
		t.Errorf("draft = %+v, %+v", resume, data)
	}
}

func TestUploadKeepsConfirmedResumes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "grace")
	uploads := NewUploads(db, newFakeStore(), plainText, NewParser(&fakeCompleter{reply: parsedReply}, 0))

	first, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("text"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := NewImporter(db).ConfirmResume(ctx, user.ID, first.ResumeID, first.ExtractedData); err != nil {
		t.Fatalf("ConfirmResume() error = %v", err)
	}
	if _, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("text")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	history, _ := uploads.History(ctx, user.ID)
	if len(history) != 2 {
		t.Fatalf("history = %d rows, want 2", len(history))
	}
}

func TestUploadParseFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "ken")
	store := newFakeStore()
	uploads := NewUploads(db, store, plainText, NewParser(&fakeCompleter{reply: "no json here"}, 0))

	_, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("text"))
	if !errors.Is(err, errs.ErrMalformedAIResponse) {
		t.Fatalf("error = %v, want malformed AI response", err)
	}
	if store.count() != 0 {
		t.Errorf("stored files = %d, want 0", store.count())
	}
	if n, _ := db.ResumeRepo().CountByUser(ctx, user.ID); n != 0 {
		t.Errorf("resumes = %d, want 0", n)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "dennis")
	store := newFakeStore()
	store.err = errs.NewStorageError("store", errors.New("disk full"))
	uploads := NewUploads(db, store, plainText, NewParser(&fakeCompleter{reply: parsedReply}, 0))

	_, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("text"))
	if !errs.IsTransient(err) {
		t.Fatalf("error = %v, want storage failure", err)
	}
}

func TestDeleteResume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	user := seedUser(t, db, "barbara")
	other := seedUser(t, db, "mallory")
	store := newFakeStore()
	uploads := NewUploads(db, store, plainText, NewParser(&fakeCompleter{reply: parsedReply}, 0))

	res, err := uploads.Upload(ctx, user.ID, "cv.pdf", models.ResumeFileTypePDF, []byte("text"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if err := uploads.Delete(ctx, other.ID, res.ResumeID); !errs.IsNotFound(err) {
		t.Fatalf("foreign Delete() error = %v, want not found", err)
	}
	if err := uploads.Delete(ctx, user.ID, res.ResumeID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.count() != 0 {
		t.Errorf("stored files = %d, want 0", store.count())
	}
	if _, _, err := uploads.LatestDraft(ctx, user.ID); !errs.IsNotFound(err) {
		t.Errorf("LatestDraft() error = %v, want not found", err)
	}
}
