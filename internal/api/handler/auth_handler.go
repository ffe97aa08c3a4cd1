package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openclass/lms-platform/internal/api/metrics"
	"github.com/openclass/lms-platform/internal/api/middleware"
	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/ports"
	"github.com/openclass/lms-platform/internal/token"
)

// AuthHandler exposes the login/session endpoints.
type AuthHandler struct {
	authService ports.AuthService
	throttle    ports.LoginThrottle
	audit       ports.AuditSink
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle ports.LoginThrottle, audit ports.AuditSink, tokenTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		throttle:    throttle,
		audit:       audit,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Login authenticates a user, sets the session cookie, and returns the user
// plus the token for non-browser clients.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      429   {object}  errorEnvelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{Message: "invalid payload", Code: domain.CodeAuthError})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope{Message: err.Error(), Code: domain.CodeAuthError})
	}

	ip := c.RealIP()
	if h.throttle != nil {
		allowed, err := h.throttle.Allow(c.Request().Context(), req.Email, ip)
		if err != nil {
			// Fail open: a throttle outage must not lock everyone out.
			h.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, errorEnvelope{
				Message: domain.ErrTooManyAttempts.Error(),
				Code:    domain.CodeRateLimited,
			})
		}
	}

	user, signed, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		h.recordAudit(c, domain.AuditEvent{Actor: req.Email, Action: domain.AuditLoginFailed})
		// One generic answer for unknown email and wrong password alike.
		return c.JSON(http.StatusUnauthorized, errorEnvelope{
			Message: "invalid email or password",
			Code:    domain.CodeInvalidCredentials,
		})
	}

	h.setTokenCookie(c, signed)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.recordAudit(c, domain.AuditEvent{Actor: user.Email, UserID: user.ID, Action: domain.AuditLogin})

	return c.JSON(http.StatusOK, authResponse{Token: signed, User: user})
}

// Logout clears the session cookie. Idempotent: succeeds whether or not a
// session existed. Tokens stay verifiable until natural expiry (no
// server-side revocation list by design).
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if principal := middleware.Principal(c); principal != nil {
		h.recordAudit(c, domain.AuditEvent{Actor: principal.Email, UserID: principal.ID, Action: domain.AuditLogout})
	}
	h.clearTokenCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Refresh reissues a token for the authenticated principal and rotates the
// cookie. Mounted behind RequireAuth.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, errorEnvelope{Message: "no authenticated principal", Code: domain.CodeAuthError})
	}

	signed, err := h.authService.Refresh(c.Request().Context(), principal)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, signed)
	h.recordAudit(c, domain.AuditEvent{Actor: principal.Email, UserID: principal.ID, Action: domain.AuditRefresh})
	return c.JSON(http.StatusOK, authResponse{Token: signed, User: principal})
}

// Me returns the resolved principal. Mounted behind RequireAuth.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, errorEnvelope{Message: "no authenticated principal", Code: domain.CodeAuthError})
	}
	return c.JSON(http.StatusOK, authResponse{User: principal})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, signed string) {
	c.SetCookie(&http.Cookie{
		Name:     token.CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     token.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) recordAudit(c echo.Context, event domain.AuditEvent) {
	if h.audit == nil {
		return
	}
	event.IP = c.RealIP()
	event.UserAgent = c.Request().UserAgent()
	event.At = time.Now().UTC()
	h.audit.Enqueue(event)
}
