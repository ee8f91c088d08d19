package getall

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	JWTMiddleware "github.com/arina0022/ya-note/internal/middleware"
	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/pkg/api/response"
	"github.com/arina0022/ya-note/pkg/logger/sl"
)

type NoteLister interface {
	List(requesterID int64) ([]models.Note, error)
}

func New(log *slog.Logger, noteLister NoteLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.getall.New"

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

		notes, err := noteLister.List(requesterID)
		if err != nil {
			log.Error("failed to list notes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list notes"))
			return
		}
		log.Info("notes were delivered successfully", slog.Int("count", len(notes)))
		render.JSON(w, r, notes)
	}
}
