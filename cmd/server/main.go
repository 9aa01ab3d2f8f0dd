package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/steadfast/idlerest/internal/config"
	"github.com/steadfast/idlerest/internal/db"
	"github.com/steadfast/idlerest/internal/estimate"
	"github.com/steadfast/idlerest/internal/geometry"
	"github.com/steadfast/idlerest/internal/logging"
	"github.com/steadfast/idlerest/internal/migrations"
	"github.com/steadfast/idlerest/internal/pricing"
	"github.com/steadfast/idlerest/internal/reference"
	"github.com/steadfast/idlerest/internal/seed"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"estimate.html", "ledger.html", "reference.html"}

type server struct {
	estimator *estimate.Estimator
	reference reference.Table
	sessions  *sessionStore
	templates map[string]*template.Template
	log       zerolog.Logger
}

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.IsDev())
	logging.SetGlobal(logger)
	if cfg.SessionSecret == "" {
		logger.Warn().Msg("SESSION_SECRET is not set, sessions will not survive a restart")
	}

	ctx := context.Background()
	table, database, err := openReference(ctx, cfg, logger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open reference table")
	}
	if database != nil {
		defer database.Close()
	}

	srv, err := newServer(cfg, table, logger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create server")
	}

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("reference", cfg.ReferenceBackend).Msg("listening")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		zlog.Fatal().Err(err).Msg("server stopped")
	}
}

// openReference returns the configured reference table. The sqlite backend
// is migrated on start and, in development, seeded from the master file.
func openReference(ctx context.Context, cfg config.Config, logger zerolog.Logger) (reference.Table, *sql.DB, error) {
	if cfg.ReferenceBackend != config.ReferenceSQLite {
		return reference.NewXLSXTable(cfg.ReferenceFile, logger), nil, nil
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("run database migrations: %w", err)
	}
	if cfg.IsDev() {
		if _, err := seed.ImportFile(ctx, database, cfg.ReferenceFile, logger); err != nil {
			logger.Warn().Err(err).Msg("could not import master file")
		}
	}
	return reference.NewSQLTable(database), database, nil
}

func newServer(cfg config.Config, table reference.Table, logger zerolog.Logger) (*server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &server{
		estimator: &estimate.Estimator{
			Source:  estimate.ReferenceSource{Table: table, Log: logger},
			Mode:    pricing.ParseRoundingMode(cfg.RoundingMode),
			Company: cfg.CompanyName,
		},
		reference: table,
		sessions:  newSessionStore(cfg.SessionSecret),
		templates: templates,
		log:       logger,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Requests(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Post("/estimate/preview", s.handleEstimatePreview)
	r.Post("/estimate/add", s.handleEstimateAdd)
	r.Get("/ledger", s.handleLedger)
	r.Get("/ledger/export.xlsx", s.handleLedgerExport)
	r.Post("/specs/upload", s.handleSpecUpload)
	r.Get("/reference", s.handleReference)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

var templateFuncs = template.FuncMap{
	"money":      func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"materials":  geometry.Materials,
	"idlerTypes": pricing.IdlerTypes,
}

func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error().Err(err).Str("page", page).Msg("failed to render template")
	}
}
