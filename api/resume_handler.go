package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/resumes"
	"github.com/rpupo63/portfolia-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var allowedResumeTypes = []string{".pdf", ".docx"}

type resumeHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploads   resumes.Uploads
	importer  resumes.Importer
	maxBytes  int64
}

func newResumeHandler(uploads resumes.Uploads, importer resumes.Importer, maxBytes int64) resumeHandler {
	logger := log.With().Str("handlerName", "resumeHandler").Logger()

	return resumeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploads:   uploads,
		importer:  importer,
		maxBytes:  maxBytes,
	}
}

type ResumeDraftResponse struct {
	ResumeID      uint                  `json:"resume_id"`
	Filename      string                `json:"filename"`
	FileType      string                `json:"file_type"`
	ExtractedData resumes.ExtractedData `json:"extracted_data"`
	CreatedAt     time.Time             `json:"created_at"`
}

type ConfirmResumeRequest struct {
	ResumeID     uint                   `json:"resume_id"`
	ApprovedData *resumes.ExtractedData `json:"approved_data"`
}

type ConfirmResumeResponse struct {
	resumes.ImportResult
	Message string `json:"message"`
}

func (h resumeHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		// Multipart framing adds a little on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, h.tooLarge())
				return
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		filename := filepath.Base(header.Filename)
		fileType := services.ResumeFileType(filename)
		if fileType == "" {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(filepath.Ext(filename), allowedResumeTypes))
			return
		}
		if header.Size > h.maxBytes {
			h.responder.WriteError(w, h.tooLarge())
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read uploaded file"))
			return
		}
		if int64(len(data)) > h.maxBytes {
			h.responder.WriteError(w, h.tooLarge())
			return
		}
		if len(data) == 0 {
			h.responder.WriteError(w, errs.NewUnprocessableError("file", "the uploaded file is empty"))
			return
		}

		result, err := h.uploads.Upload(r.Context(), userID, filename, fileType, data)
		if err != nil {
			h.logger.Warn().Err(err).Uint("userID", userID).Str("filename", filename).Msg("resume upload failed")
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// uploadLimiter caps uploads per client IP. Each upload costs an AI call.
func (h resumeHandler) uploadLimiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.responder.WriteError(w, errs.NewRateLimitError("resume upload", time.Minute))
		}),
	)
}

func (h resumeHandler) tooLarge() error {
	return errs.NewUnprocessableError("file", fmt.Sprintf("file exceeds the %d MB limit", h.maxBytes>>20))
}

// getDraft returns the newest upload still awaiting confirmation.
func (h resumeHandler) getDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		resume, data, err := h.uploads.LatestDraft(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "resume", err))
			return
		}
		h.responder.WriteJSON(w, ResumeDraftResponse{
			ResumeID:      resume.ID,
			Filename:      resume.Filename,
			FileType:      resume.FileType,
			ExtractedData: data,
			CreatedAt:     resume.CreatedAt,
		})
	}
}

func (h resumeHandler) history() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		rows, err := h.uploads.History(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "resume", err))
			return
		}
		if rows == nil {
			rows = []models.Resume{}
		}
		h.responder.WriteJSON(w, rows)
	}
}

func (h resumeHandler) confirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing user"))
			return
		}

		var req ConfirmResumeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ResumeID == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("resume_id"))
			return
		}
		if req.ApprovedData == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("approved_data"))
			return
		}

		result, err := h.importer.ConfirmResume(r.Context(), userID, req.ResumeID, *req.ApprovedData)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ConfirmResumeResponse{
			ImportResult: result,
			Message:      "Resume data imported successfully",
		})
	}
}

func (h resumeHandler) delete() http.HandlerFunc {
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

		if err := h.uploads.Delete(r.Context(), userID, id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "resume", err))
			return
		}
		h.responder.WriteJSON(w, MessageResponse{Message: "Resume deleted successfully"})
	}
}
