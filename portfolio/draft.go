package portfolio

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// DraftStore keeps exactly one draft document per user.
type DraftStore struct {
	db database.Database
}

func NewDraftStore(db database.Database) DraftStore {
	return DraftStore{db: db}
}

// GetOrCreate returns the stored draft, seeding it from a live snapshot the
// first time. Two first calls racing each other both end up with the same
// row: the loser's insert hits the unique user_id index and it re-reads.
func (s DraftStore) GetOrCreate(ctx context.Context, userID uint) (*models.PortfolioDraft, error) {
	db := s.db.Primary()

	draft, err := db.DraftRepo().FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "draft", err)
	}
	if draft != nil {
		return draft, nil
	}

	snapshot, err := buildSnapshot(ctx, db, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("build", "snapshot", err)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("encode snapshot", err)
	}

	draft = &models.PortfolioDraft{UserID: userID, Data: datatypes.JSON(data)}
	insertErr := db.DraftRepo().Add(ctx, draft)
	if insertErr == nil {
		return draft, nil
	}

	existing, err := db.DraftRepo().FindByUser(ctx, userID)
	if err == nil && existing != nil {
		log.Debug().Uint("userID", userID).Msg("draft created concurrently, using existing row")
		return existing, nil
	}
	return nil, errs.NewDatabaseError("create", "draft", insertErr)
}

// Save overwrites the user's draft with data. data must be a JSON object
// holding every required key; the sections themselves are stored as given.
func (s DraftStore) Save(ctx context.Context, userID uint, data json.RawMessage) (*models.PortfolioDraft, error) {
	if err := CheckDocument(data); err != nil {
		return nil, err
	}

	if _, err := s.db.UserRepo().FindByID(ctx, userID); err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	compact := &bytes.Buffer{}
	if err := json.Compact(compact, data); err != nil {
		return nil, errs.NewInvalidJSONError(err)
	}

	draft, err := s.db.DraftRepo().Upsert(ctx, userID, datatypes.JSON(compact.Bytes()))
	if err != nil {
		return nil, errs.NewDatabaseError("save", "draft", err)
	}
	return draft, nil
}

// CheckDocument verifies that data is a JSON object carrying all required
// keys, reporting every missing key at once.
func CheckDocument(data json.RawMessage) error {
	var sections map[string]json.RawMessage
	if len(bytes.TrimSpace(data)) == 0 || json.Unmarshal(data, &sections) != nil || sections == nil {
		return errs.NewValidationError("data", "draft data must be a JSON object")
	}

	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := sections[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return errs.NewMissingKeysError("data", missing)
	}
	return nil
}
