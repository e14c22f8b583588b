package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "dailydose/internal/adapters/storage/memory"
	pg "dailydose/internal/adapters/storage/postgres"
	"dailydose/internal/domain/doses"
	"dailydose/internal/domain/medications"
	"dailydose/internal/middleware"
	"dailydose/internal/platform/logger"
	"dailydose/internal/ports/auth"

	_ "dailydose/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: logger para el middleware de requests.
	Log logger.Logger

	// Opcional: scheduler de recordatorios (nil => sin recordatorios).
	Reminders medications.ReminderScheduler
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.RequestLogger(opts.Log))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		medRepo  medications.Repository
		doseRepo doses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		medRepo = pg.NewMedicationsRepo(db)
		doseRepo = pg.NewDosesRepo(db)
	} else {
		medRepo = mem.NewMedicationsRepo()
		doseRepo = mem.NewDosesRepo()
	}

	// Services por módulo
	medsSvc := medications.NewService(medRepo, opts.Reminders)
	dosesSvc := doses.NewService(doseRepo, medsSvc)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	doses.RegisterRoutes(r, dosesSvc, medsSvc)

	return r
}
