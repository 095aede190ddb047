package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/observability/metrics"
	"github.com/aryan0dhankhar/sitebook/internal/security/middleware"
	"github.com/aryan0dhankhar/sitebook/internal/security/ratelimit"
	"github.com/aryan0dhankhar/sitebook/internal/service"
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Logger      *slog.Logger
	Auth        *service.AuthService
	Projects    *service.ProjectService
	Workers     *service.WorkerService
	Expenses    *service.ExpenseService
	Incomes     *service.IncomeService
	WorkLogs    *service.WorkLogService
	Reports     *service.ReportService
	Limiter     *ratelimit.Limiter
	CORSOrigins []string
	// Ready lists the dependencies checked by /readyz
	Ready map[string]Pinger
}

// NewRouter builds the HTTP surface
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	authH := NewAuthHandler(d.Auth, log)
	projectH := NewProjectHandler(d.Projects, log)
	workerH := NewRecordHandler[service.WorkerInput, domain.Worker](d.Workers, log)
	expenseH := NewRecordHandler[service.ExpenseInput, domain.Expense](d.Expenses, log)
	incomeH := NewRecordHandler[service.IncomeInput, domain.Income](d.Incomes, log)
	workLogH := NewRecordHandler[service.WorkLogInput, domain.WorkLog](d.WorkLogs, log)
	reportH := NewReportHandler(d.Reports, log)
	healthH := NewHealthHandler(d.Ready, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))

	r.Get("/healthz", healthH.Health)
	r.Get("/readyz", healthH.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ValidateJSONContentType(log))

		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(d.Auth, log))
			r.Use(middleware.RateLimitMiddleware(d.Limiter, log))

			r.Get("/auth/me", authH.Me)
			r.Route("/projects", projectH.Routes)
			r.Route("/workers", workerH.Routes)
			r.Route("/expenses", expenseH.Routes)
			r.Route("/incomes", incomeH.Routes)
			r.Route("/workdays", workLogH.Routes)
			r.Get("/reports/financial", reportH.Financial)
			r.Get("/reports/projects", reportH.Projects)
		})
	})

	return r
}
