package delete

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	JWTMiddleware "github.com/arina0022/ya-note/internal/middleware"
	"github.com/arina0022/ya-note/internal/storage"
	"github.com/arina0022/ya-note/pkg/api/response"
	"github.com/arina0022/ya-note/pkg/logger/sl"
)

type NoteDeleter interface {
	Delete(requesterID int64, slug string) error
}

func New(log *slog.Logger, noteDeleter NoteDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.delete.New"

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

		err := noteDeleter.Delete(requesterID, slug)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("slug", slug))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("note not found"))
			return
		}
		if err != nil {
			log.Error("failed to delete note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete note"))
			return
		}

		log.Info("note successfully deleted", slog.String("slug", slug))
		render.JSON(w, r, response.OK())
	}
}
