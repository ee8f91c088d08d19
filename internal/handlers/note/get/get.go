package get

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	JWTMiddleware "github.com/arina0022/ya-note/internal/middleware"
	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/storage"
	"github.com/arina0022/ya-note/pkg/api/response"
	"github.com/arina0022/ya-note/pkg/logger/sl"
)

type NoteGetter interface {
	Get(requesterID int64, slug string) (*models.Note, error)
}

func New(log *slog.Logger, noteGetter NoteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.get.New"

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

		note, err := noteGetter.Get(requesterID, slug)
		if errors.Is(err, storage.ErrNoteNotFound) {
			// missing and not-owned look identical on purpose
			log.Info("note not found", slog.String("slug", slug))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("note not found"))
			return
		}
		if err != nil {
			log.Error("failed to get note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get note"))
			return
		}
		log.Info("note was delivered successfully", slog.String("slug", slug))
		render.JSON(w, r, note)
	}
}
