package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/middleware"
)

type Handlers struct {
	Users    *handlers.UserHandler
	Journals *handlers.JournalHandler
	Upload   *handlers.UploadHandler
}

type Options struct {
	AllowedOrigins []string
	Production     bool
	// Redis enables the shared fixed-window limiter; nil leaves only the
	// in-process limiters.
	Redis *redis.Client
}

// NewRouter builds the middleware stack and mounts every route.
func NewRouter(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Production {
		r.Use(middleware.SecurityHeaders)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GlobalRateLimit())
		r.Use(middleware.RedisRateLimit(opts.Redis, middleware.DefaultRedisLimit))
		SetupRoutes(r, h)
	})
	return r
}

func SetupRoutes(r chi.Router, h Handlers) {
	loginLimit := middleware.LoginRateLimit()

	r.Route("/users", func(r chi.Router) {
		r.With(loginLimit).Post("/signup", h.Users.SignUp)
		r.With(loginLimit).Post("/login", h.Users.Login)
		r.Post("/token/refresh", h.Users.Refresh)
		r.Post("/password", h.Users.ChangePassword)

		r.Get("/info/{idToken}", h.Users.Info)
		r.Get("/info/secure/{idToken}", h.Users.InfoSecure)
		r.Get("/info/id/{userId}", h.Users.InfoByID)

		r.Post("/like", h.Users.Like)
		r.Post("/unlike", h.Users.Unlike)
		r.Get("/liked/{idToken}", h.Users.LikedJournals)
	})

	r.Route("/explore", func(r chi.Router) {
		r.Get("/", h.Journals.Explore)
		r.Post("/{journalId}/comments/{commenterId}", h.Journals.AddComment)
		r.Put("/{journalId}/comments/{commentId}", h.Journals.EditComment)
		r.Delete("/{journalId}/comments/{commentId}", h.Journals.DeleteComment)
	})

	r.Route("/me/{userId}", func(r chi.Router) {
		r.Get("/", h.Journals.UserJournals)
		r.Post("/", h.Journals.Create)
		r.Put("/{journalId}", h.Journals.Edit)
		r.Delete("/{journalId}", h.Journals.Delete)
		r.Put("/{journalId}/privacy", h.Journals.ChangePrivacy)
	})

	r.Post("/upload", h.Upload.Upload)
}
