package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// resourceHandler serves CRUD endpoints for one user-owned collection of the
// live portfolio. Rows of other users answer 404.
type resourceHandler[T any, PT interface {
	*T
	models.Owned
}] struct {
	responder Responder
	logger    zerolog.Logger
	repo      *database.OwnedRepo[T, PT]
	entity    string
}

func newResourceHandler[T any, PT interface {
	*T
	models.Owned
}](repo *database.OwnedRepo[T, PT]) resourceHandler[T, PT] {
	logger := log.With().Str("handlerName", "resourceHandler").Str("entity", repo.Entity()).Logger()

	return resourceHandler[T, PT]{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
		entity:    repo.Entity(),
	}
}

// mount registers the collection routes under the current router.
func (h resourceHandler[T, PT]) mount(r chi.Router) {
	r.Get("/", h.list())
	r.Post("/", h.create())
	r.Get("/{id}", h.get())
	r.Put("/{id}", h.update())
	r.Delete("/{id}", h.delete())
}

// canonicalizer is implemented by models that rewrite loosely spelled
// values before validation.
type canonicalizer interface {
	Canonicalize()
}

func prepare(row any) error {
	if c, ok := row.(canonicalizer); ok {
		c.Canonicalize()
	}
	return validation.ValidateStruct(row)
}

func (h resourceHandler[T, PT]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		rows, err := h.repo.ListByUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, rows)
	}
}

func (h resourceHandler[T, PT]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		row, err := h.repo.FindOwned(r.Context(), userID, id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, row)
	}
}

func (h resourceHandler[T, PT]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		row := PT(new(T))
		if err := decodeJSON(w, r, row); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode request body")
			h.responder.WriteError(w, err)
			return
		}
		row.SetPrimaryKey(0)
		row.SetOwner(userID)

		if err := prepare(row); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.repo.Add(r.Context(), row); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, row)
	}
}

// update decodes the body over the stored row, so fields missing from the
// body keep their current values.
func (h resourceHandler[T, PT]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		row, err := h.repo.FindOwned(r.Context(), userID, id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if err := decodeJSON(w, r, row); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode request body")
			h.responder.WriteError(w, err)
			return
		}
		row.SetPrimaryKey(id)
		row.SetOwner(userID)

		if err := prepare(row); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.repo.Update(r.Context(), row); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, row)
	}
}

func (h resourceHandler[T, PT]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.DeleteOwned(r.Context(), userID, id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": h.entity + " deleted successfully",
		})
	}
}
