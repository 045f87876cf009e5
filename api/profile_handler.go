package api

import (
	"net/http"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/portfolio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProfileHandler(db database.Database) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// ProfileResponse is the live profile together with the account settings.
type ProfileResponse struct {
	Username string                    `json:"username"`
	Profile  models.Profile            `json:"profile"`
	Settings portfolio.SettingsSection `json:"settings"`
}

// ProfileUpdateRequest accepts the profile fields and the settings
// whitelist at the top level. Absent keys are left unchanged.
type ProfileUpdateRequest struct {
	portfolio.ProfilePatch
	portfolio.SettingsPatch
}

func profileResponse(user models.User, profile *models.Profile) ProfileResponse {
	if profile == nil {
		profile = &models.Profile{UserID: user.ID, Name: user.DisplayName(), Email: user.Email}
	}
	return ProfileResponse{
		Username: user.Username,
		Profile:  *profile,
		Settings: portfolio.SettingsSection{
			IsPublic:         user.IsPublic,
			ThemePreference:  user.Theme(),
			AnalyticsEnabled: user.AnalyticsEnabled,
		},
	}
}

func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		user, err := h.db.UserRepo().FindByID(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		profile, err := h.db.ProfileRepo().FindByUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "profile", err))
			return
		}
		h.responder.WriteJSON(w, profileResponse(*user, profile))
	}
}

func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		var req ProfileUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var resp ProfileResponse
		err = h.db.Transaction(r.Context(), func(tx database.Database) error {
			user, err := tx.UserRepo().LockByID(r.Context(), userID)
			if err != nil {
				return err
			}

			profile, err := tx.ProfileRepo().FindByUser(r.Context(), userID)
			if err != nil {
				return err
			}
			if profile == nil {
				profile = &models.Profile{UserID: userID, Name: user.DisplayName(), Email: user.Email}
			}
			req.ApplyProfile(profile)
			if err := tx.ProfileRepo().Save(r.Context(), profile); err != nil {
				return err
			}

			settings, err := req.Resolve(*user)
			if err != nil {
				return errs.NewValidationError("theme_preference", err.Error())
			}
			if err := tx.UserRepo().UpdateSettings(r.Context(), userID, settings.IsPublic, settings.ThemePreference, settings.AnalyticsEnabled); err != nil {
				return err
			}

			resp = profileResponse(*user, profile)
			resp.Settings = settings
			return nil
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}

		h.logger.Info().Uint("userID", userID).Msg("profile updated")
		h.responder.WriteJSON(w, resp)
	}
}
