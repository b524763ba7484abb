package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/junkcaptain/crm/backend/internal/handlers"
	"github.com/junkcaptain/crm/backend/internal/middleware"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/junkcaptain/crm/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// QuoteRateLimitMessage is returned when a client submits too many quotes.
const QuoteRateLimitMessage = "Too many quote requests. Please try again later or call us."

// Four 5MB photos plus form fields.
const defaultQuoteBodyLimit = "25M"

// Dependencies are the services and settings the routes are built from.
type Dependencies struct {
	Log           *slog.Logger
	Customers     *services.CustomerService
	Quotes        *services.QuoteService
	Notifications repositories.NotificationRepository
	Users         repositories.UserRepository

	// FirebaseAuth enables POST /api/login/firebase when set.
	FirebaseAuth handlers.IDTokenVerifier
	JWTSecret    string
	TokenTTL     time.Duration

	// QuoteLimiter limits POST /api/quote per client IP when set.
	QuoteLimiter   middleware.Limiter
	QuoteBodyLimit string
}

// IPExtractor decides which address identifies a client for rate limiting.
// Without trusted proxies the TCP peer is used and forwarding headers are
// ignored. With them, X-Forwarded-For is honoured only for hops inside the
// given CIDR ranges.
func IPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	api := e.Group("/api")

	// Health check - always accessible
	api.GET("/health", handlers.HealthCheck)

	// --- Public quote intake ---
	bodyLimit := deps.QuoteBodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultQuoteBodyLimit
	}
	quoteMiddleware := []echo.MiddlewareFunc{eMiddleware.BodyLimit(bodyLimit)}
	if deps.QuoteLimiter != nil {
		quoteMiddleware = append(quoteMiddleware,
			middleware.RateLimitMiddleware(deps.QuoteLimiter, deps.Log, QuoteRateLimitMessage))
	}
	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	api.POST("/quote", quoteHandler.SubmitQuote, quoteMiddleware...)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(deps.Users, deps.FirebaseAuth, deps.JWTSecret, deps.TokenTTL)
	authHandler.RegisterAuthRoutes(api.Group("/login"))

	// --- Protected routes (require JWT authentication) ---
	jwtAuth := middleware.JWTAuthMiddleware(deps.JWTSecret)

	customerHandler := handlers.NewCustomerHandler(deps.Customers)
	customerHandler.RegisterCustomerRoutes(api.Group("/customers", jwtAuth))

	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	notificationHandler.RegisterNotificationRoutes(api.Group("/notifications", jwtAuth))

	profileHandler := handlers.NewProfileHandler(deps.Users)
	profileHandler.RegisterProfileRoutes(api.Group("/me", jwtAuth))

	deps.Log.Info("routes configured", slog.Bool("firebase_login", deps.FirebaseAuth != nil),
		slog.Bool("quote_rate_limit", deps.QuoteLimiter != nil))
}

// ErrorHandler writes every error as {"error": "<message>"}. Server errors
// are logged with their internal cause; the client only sees the message.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{"error": message})
		}
		if err != nil {
			log.Error("write error response", slog.Any("error", err))
		}
	}
}
