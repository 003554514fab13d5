package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"

	_ "github.com/oneclicklabs/oneclick-access/api/access" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.SecretVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	Metrics             *metrics.Metrics
	RegistrationService *service.RegistrationService
	IssuanceService     *service.IssuanceService
}

func NewRouter(
	verifier httpx.SecretVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.metricsMiddleware)
	}

	r.registerEntitlements()
	r.registerBindings()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// metricsMiddleware records request latency per route pattern so high-card
// raw paths never become label values.
func (r *Router) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		_, pattern := r.Mux.Handler(req)
		if pattern == "" {
			pattern = "unmatched"
		}
		r.Metrics.ObserveRequest(pattern, strconv.Itoa(rec.status), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OneClick Access Service API
//	@version		0.1.0
//	@description	Entitlement and delivery-code binding service. Time-bound access is
//	@description	granted out-of-band (manual approval or a trusted payment backend),
//	@description	and entitled users mint globally unique delivery codes.
//	@description
//	@description				All endpoints except the health probes require the shared API secret.
//
//	@contact.name				OneClick Labs
//	@contact.url				https://github.com/oneclicklabs/oneclick-access
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shared API secret. Format: "Bearer {secret}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerEntitlements() {
	registerHandler := &EntitlementRegisterHandler{
		RegistrationService: r.RegistrationService,
		Metrics:             r.Metrics,
	}
	statusHandler := &EntitlementStatusHandler{RegistrationService: r.RegistrationService}

	// POST /v1/entitlements - trusted backend writes, moderate rate limit
	r.Mux.Handle("POST /v1/entitlements",
		httpx.Chain(registerHandler,
			httpx.BearerSecretMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/entitlements/{user_id} - read-only status projection
	r.Mux.Handle("GET /v1/entitlements/{user_id}",
		httpx.Chain(statusHandler,
			httpx.BearerSecretMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerBindings() {
	infoHandler := &BindingInfoHandler{RegistrationService: r.RegistrationService}
	claimHandler := &BindingClaimHandler{
		IssuanceService: r.IssuanceService,
		Metrics:         r.Metrics,
	}

	// GET /v1/bindings/{identifier} - delivery routing lookup, polled often
	r.Mux.Handle("GET /v1/bindings/{identifier}",
		httpx.Chain(infoHandler,
			httpx.BearerSecretMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /v1/bindings/claim - re-binding, moderate rate limit
	r.Mux.Handle("POST /v1/bindings/claim",
		httpx.Chain(claimHandler,
			httpx.BearerSecretMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
