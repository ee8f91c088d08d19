package update

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	JWTMiddleware "github.com/arina0022/ya-note/internal/middleware"
	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/service/notes"
	"github.com/arina0022/ya-note/internal/storage"
	"github.com/arina0022/ya-note/pkg/api/response"
	"github.com/arina0022/ya-note/pkg/logger/sl"
)

type Request struct {
	Title string `json:"title" validate:"required"`
	Text  string `json:"text"`
	Slug  string `json:"slug,omitempty"`
}

type NoteEditor interface {
	Edit(requesterID int64, slug, newTitle, newText, newSlug string) (*models.Note, error)
	DeriveSlug(title string) string
}

func New(log *slog.Logger, noteEditor NoteEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.update.New"
		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		requesterID := JWTMiddleware.GetUserID(r.Context())
		if requesterID == 0 {
			log.Error("unauthorized: no user_id in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		slug := chi.URLParam(r, "slug")

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("failed to decode request body"))
			return
		}
		log.Info("decoded request", slog.Any("request", req))
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		newSlug := req.Slug
		if newSlug == "" {
			newSlug = noteEditor.DeriveSlug(req.Title)
		}

		note, err := noteEditor.Edit(requesterID, slug, req.Title, req.Text, newSlug)
		if errors.Is(err, storage.ErrNoteNotFound) {
			// covers both a missing note and somebody else's note
			log.Info("note not found", slog.String("slug", slug))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("note not found"))
			return
		}
		if errors.Is(err, storage.ErrSlugTaken) {
			log.Info("slug already taken", slog.String("slug", newSlug))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.FieldError("slug", newSlug+notes.SlugTakenWarning))
			return
		}
		if err != nil {
			log.Error("failed to update note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update note"))
			return
		}

		log.Info("note successfully updated", slog.String("slug", note.Slug))
		render.JSON(w, r, note)
	}
}
