package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookkeep/library-records/docs"
	"github.com/bookkeep/library-records/internal/api/handler"
	"github.com/bookkeep/library-records/internal/api/middleware"
	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth    ports.AuthService
	Books   ports.BookService
	Members ports.MemberService
	Borrow  ports.BorrowService

	// Checks feed the readiness probe.
	Checks []handler.DependencyCheck

	// RequireAuth puts catalogue and borrow routes behind a bearer token and
	// restricts book and member mutations to admins.
	RequireAuth bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Route guards ---
	var read, write []echo.MiddlewareFunc
	if d.RequireAuth {
		authMiddleware := middleware.Auth(d.Auth)
		read = []echo.MiddlewareFunc{authMiddleware}
		write = []echo.MiddlewareFunc{authMiddleware, middleware.RBAC(domain.RoleAdmin)}
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/", authHandler.Register)
	e.POST("/auth/token", authHandler.Login)

	// --- Books ---
	bookHandler := handler.NewBookHandler(d.Books)
	e.GET("/books", bookHandler.List, read...)
	e.GET("/books/:id", bookHandler.Get, read...)
	e.POST("/books", bookHandler.Create, write...)
	e.PUT("/book/:id", bookHandler.Update, write...)
	e.DELETE("/book/:id", bookHandler.Delete, write...)

	// --- Members ---
	memberHandler := handler.NewMemberHandler(d.Members)
	e.GET("/members_all", memberHandler.List, read...)
	e.GET("/members/:id", memberHandler.Get, read...)
	e.POST("/member", memberHandler.Create, write...)
	e.PUT("/member/:id", memberHandler.Update, write...)
	e.DELETE("/member/:id", memberHandler.Delete, write...)

	// --- Borrow ---
	borrowHandler := handler.NewBorrowHandler(d.Borrow)
	e.POST("/borrow", borrowHandler.Borrow, read...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
