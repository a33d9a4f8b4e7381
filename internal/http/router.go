package http

import (
	"net/http"

	"pillpal/internal/auth"
	"pillpal/internal/config"
	"pillpal/internal/http/handler"
	mw "pillpal/internal/http/middleware"
	"pillpal/internal/medication"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc, Log: log}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	logs := &medication.LogStore{DB: db}
	svc := &medication.Service{DB: db, Logs: logs}
	projector := &medication.Projector{DB: db, Logs: logs}

	remH := &handler.RemindersHandler{Svc: svc, Projector: projector, Log: log}
	doseH := &handler.DoseLogHandler{Svc: svc, Log: log}
	histH := &handler.HistoryHandler{Logs: logs, Log: log}
	exportH := &handler.ExportHandler{Svc: svc, Log: log}

	r.Route("/reminders", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", remH.List)
		r.Post("/", remH.Create)
		r.Put("/{id}", remH.Update)
		r.Delete("/{id}", remH.Delete)
		r.Post("/{id}/log", doseH.Mark)
	})

	r.With(auth.RequireAuth(jwtSvc)).Get("/history", histH.List)
	r.With(auth.RequireAuth(jwtSvc)).Get("/export", exportH.Export)

	return r
}
