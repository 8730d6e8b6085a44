package main

import (
	"log"
	"net/http"

	"github.com/AdamBeresnev/bracket-board/internal/config"
	"github.com/AdamBeresnev/bracket-board/internal/db"
	"github.com/AdamBeresnev/bracket-board/internal/metrics"
	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	"github.com/AdamBeresnev/bracket-board/internal/service"
	"github.com/AdamBeresnev/bracket-board/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type application struct {
	sessionManager *scs.SessionManager
	userStore      *store.UserStore
	tournaments    *service.TournamentService
	matches        *service.MatchService
	entries        *service.EntryService
	users          *service.UserService
	limiter        *middleware.RateLimiter
	metrics        http.Handler
}

func newApplication(database *sqlx.DB, sessionManager *scs.SessionManager, cfg *config.Config) *application {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	tournamentStore := store.NewTournamentStore(database)
	userStore := store.NewUserStore(database)

	return &application{
		sessionManager: sessionManager,
		userStore:      userStore,
		tournaments:    service.NewTournamentService(database, tournamentStore, m),
		matches:        service.NewMatchService(tournamentStore, m),
		entries:        service.NewEntryService(),
		users:          service.NewUserService(userStore),
		limiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

func main() {
	cfg := config.Load()

	database := db.InitDB(cfg.DatabasePath)
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	router := newRouter(newApplication(database, sessionManager, cfg))

	log.Printf("Server starting on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
