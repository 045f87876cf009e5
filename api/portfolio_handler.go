package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/portfolio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Usernames that collide with frontend routes.
var reservedUsernames = map[string]bool{
	"dashboard": true,
	"auth":      true,
	"projects":  true,
	"portfolio": true,
	"api":       true,
	"landing":   true,
	"profile":   true,
}

type portfolioHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	drafts    portfolio.DraftStore
	publisher portfolio.Publisher
	builder   portfolio.Builder
}

func newPortfolioHandler(db database.Database) portfolioHandler {
	logger := log.With().Str("handlerName", "portfolioHandler").Logger()

	return portfolioHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		drafts:    portfolio.NewDraftStore(db),
		publisher: portfolio.NewPublisher(db),
		builder:   portfolio.NewBuilder(db),
	}
}

type DraftResponse struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type DraftSaveRequest struct {
	Data json.RawMessage `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// PublicPortfolio is the published document of a public user.
type PublicPortfolio struct {
	Username string `json:"username"`
	portfolio.Document
}

func draftResponse(draft *models.PortfolioDraft) DraftResponse {
	return DraftResponse{Data: json.RawMessage(draft.Data), UpdatedAt: draft.UpdatedAt}
}

// getDraft returns the working copy, seeding it from the live portfolio on
// first access.
func (h portfolioHandler) getDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		draft, err := h.drafts.GetOrCreate(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "draft", err))
			return
		}
		h.responder.WriteJSON(w, draftResponse(draft))
	}
}

func (h portfolioHandler) saveDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		var req DraftSaveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(req.Data) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("data"))
			return
		}

		draft, err := h.drafts.Save(r.Context(), userID, req.Data)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "draft", err))
			return
		}
		h.responder.WriteJSON(w, draftResponse(draft))
	}
}

func (h portfolioHandler) publish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		if err := h.publisher.Publish(r.Context(), userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, MessageResponse{Message: "Portfolio published successfully"})
	}
}

// getPublic serves the live portfolio of a public user. No authentication.
func (h portfolioHandler) getPublic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(chi.URLParam(r, "username"))
		if username == "" || reservedUsernames[strings.ToLower(username)] {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid username"))
			return
		}

		user, err := h.db.UserRepo().FindByUsername(r.Context(), username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if !user.IsPublic {
			h.responder.WriteError(w, errs.NewForbiddenError("this portfolio is private"))
			return
		}

		doc, err := h.builder.BuildSnapshot(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "portfolio", err))
			return
		}
		h.responder.WriteJSON(w, PublicPortfolio{Username: user.Username, Document: doc})
	}
}
