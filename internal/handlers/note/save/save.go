package save

import (
	"errors"
	"log/slog"
	"net/http"

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

type NoteCreator interface {
	Create(requesterID int64, title, text, slug string) (*models.Note, error)
	DeriveSlug(title string) string
}

func New(log *slog.Logger, noteCreator NoteCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.save.New"
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
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("decoded request", slog.Any("request", req))
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		slugValue := req.Slug
		if slugValue == "" {
			slugValue = noteCreator.DeriveSlug(req.Title)
		}

		note, err := noteCreator.Create(requesterID, req.Title, req.Text, slugValue)
		if errors.Is(err, storage.ErrSlugTaken) {
			log.Info("slug already taken", slog.String("slug", slugValue))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.FieldError("slug", slugValue+notes.SlugTakenWarning))
			return
		}
		if err != nil {
			log.Error("failed to create note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create note"))
			return
		}
		log.Info("note successfully created", slog.String("slug", note.Slug))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, note)
	}
}
