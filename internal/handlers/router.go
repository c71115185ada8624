package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Werneck0live/registro-leads/internal/metrics"
)

type Routes struct {
	Intake  *IntakeHandler
	Report  *ReportHandler
	Health  *HealthHandler
	Metrics http.Handler // nil = sem /metrics
}

func NewRouter(rt Routes) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/", rt.Intake.Form)
	r.Post("/search", rt.Intake.Search)
	r.Post("/save", rt.Intake.Save)

	r.Route("/report", func(r chi.Router) {
		r.Get("/", rt.Report.View)
		r.Post("/unlock", rt.Report.Unlock)
		r.Post("/lock", rt.Report.Lock)
		r.Get("/export.csv", rt.Report.ExportCSV)
		r.Get("/export.xlsx", rt.Report.ExportXLSX)
	})

	r.Get("/healthz", rt.Health.Health)
	if rt.Metrics != nil {
		r.Handle("/metrics", rt.Metrics)
	}
	return r
}
