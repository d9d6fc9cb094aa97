package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sauvini-api/internal/adaptor"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/usecase"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/middleware"
	"sauvini-api/pkg/throttle"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

// Infra holds the process-level dependencies built in cmd.
type Infra struct {
	Tokens    token.Service
	Mailer    mailer.Mailer
	Throttler throttle.Throttler
	Checks    map[string]adaptor.Pinger
	Registry  *prometheus.Registry
}

// App holds the wired router and services
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router.
func Wiring(repo *repository.Repository, infra Infra, config *utils.Config, logger *zap.Logger) *App {
	if infra.Throttler == nil {
		infra.Throttler = throttle.NewNoop()
	}
	if infra.Registry == nil {
		infra.Registry = prometheus.NewRegistry()
	}

	service := usecase.NewService(repo, infra.Tokens, infra.Mailer, infra.Throttler, config, logger)
	handler := adaptor.NewHandler(service, infra.Checks, logger)

	router := setupRouter(handler, repo, infra, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	infra Infra,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	metrics := middleware.NewMetrics(infra.Registry)

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(metrics.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed", nil)
	})

	authenticate := middleware.Authenticate(infra.Tokens, repo.User, logger)

	wireHealth(r, handler.Health)
	r.Handle("/metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))

	r.Route(apiPrefix(config), func(api chi.Router) {
		wireHealth(api, handler.Health)

		api.Route("/auth", func(auth chi.Router) {
			wireAuth(auth, handler.Auth, authenticate)
			wireAdmin(auth, handler.Admin, authenticate, logger)
		})

		wireUser(api, handler.User, authenticate, logger)
		wireCourse(api, handler.Course, handler.Stream, authenticate, logger)
	})

	return r
}

func apiPrefix(config *utils.Config) string {
	if config.App.APIPrefix == "" {
		return "/api/v1"
	}
	return config.App.APIPrefix
}

func wireHealth(r chi.Router, h *adaptor.HealthHandler) {
	r.Get("/health", h.Ready)
	r.Get("/health/live", h.Live)
}
