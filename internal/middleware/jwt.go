package middleware

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Claims are the bearer token claims staff tokens carry.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Auth verifies bearer tokens against a JWKS endpoint or a shared HMAC
// secret. With neither configured it lets every request through.
type Auth struct {
	config  *echojwt.Config
	jwks    *keyfunc.JWKS
	logger  zerolog.Logger
	enabled bool
}

func NewAuth(ctx context.Context, jwtSecret, jwksURL string, logger zerolog.Logger) (*Auth, error) {
	a := &Auth{logger: logger.With().Str("component", "auth").Logger()}

	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		SuccessHandler: a.onSuccess,
		ErrorHandler: func(c echo.Context, err error) error {
			a.logger.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return common.SendUnauthorizedError(c)
		},
	}

	switch {
	case jwksURL != "":
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				a.logger.Warn().Err(err).Msg("failed to refresh JWKS")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		a.jwks = jwks
		config.KeyFunc = jwks.Keyfunc
	case jwtSecret != "":
		config.SigningKey = []byte(jwtSecret)
	default:
		a.logger.Warn().Msg("no JWT_SECRET or JWKS_URL configured, API is open")
		return a, nil
	}

	a.config = &config
	a.enabled = true
	return a, nil
}

// Enabled reports whether tokens are being verified.
func (a *Auth) Enabled() bool {
	return a.enabled
}

// Middleware returns the verifying middleware, or a pass-through when auth
// is disabled.
func (a *Auth) Middleware() echo.MiddlewareFunc {
	if !a.enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echojwt.WithConfig(*a.config)
}

// Close stops the JWKS refresh goroutine.
func (a *Auth) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

func (a *Auth) onSuccess(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return
	}
	ctx := context.WithValue(c.Request().Context(), common.UserIDKey, claims.Subject)
	ctx = a.logger.With().Str("user_id", claims.Subject).Logger().WithContext(ctx)
	c.SetRequest(c.Request().WithContext(ctx))
}

// UserIDFromContext returns the token subject set by Auth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(common.UserIDKey).(string)
	return id, ok
}
