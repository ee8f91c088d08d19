// Package router wires the HTTP surface: public user routes and the
// JWT-guarded note routes addressed by slug.
package router

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	noteDelete "github.com/arina0022/ya-note/internal/handlers/note/delete"
	noteGet "github.com/arina0022/ya-note/internal/handlers/note/get"
	"github.com/arina0022/ya-note/internal/handlers/note/getall"
	noteSave "github.com/arina0022/ya-note/internal/handlers/note/save"
	"github.com/arina0022/ya-note/internal/handlers/note/update"
	"github.com/arina0022/ya-note/internal/handlers/user/login"
	userSave "github.com/arina0022/ya-note/internal/handlers/user/save"
	JWTMiddleware "github.com/arina0022/ya-note/internal/middleware"
	"github.com/arina0022/ya-note/internal/models"
	"github.com/arina0022/ya-note/internal/service/notes"
)

type UserStore interface {
	SaveUser(username, password string) (int64, error)
	GetUserByUsername(username string) (*models.User, error)
}

func New(log *slog.Logger, svc *notes.Service, users UserStore) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Post("/users/register", userSave.New(log, users))
	r.Post("/users/login", login.New(log, users))

	r.Route("/notes", func(r chi.Router) {
		r.Use(JWTMiddleware.JWT)
		r.Post("/", noteSave.New(log, svc))
		r.Get("/", getall.New(log, svc))
		r.Get("/{slug}", noteGet.New(log, svc))
		r.Put("/{slug}", update.New(log, svc))
		r.Delete("/{slug}", noteDelete.New(log, svc))
	})

	return r
}
