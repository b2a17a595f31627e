package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"golang.org/x/time/rate"
)

// loginRateLimit caps credential-guessing attempts per client address.
// Idle limiters are evicted so the per-address map stays bounded.
const (
	loginRateLimit   = rate.Limit(1)
	loginRateBurst   = 10
	loginLimiterTTL  = time.Hour
	maxLoginLimiters = 1024
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginLimiter pairs a rate limiter with its last use for eviction
type loginLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AuthHandler serves login and current-user lookups.
type AuthHandler struct {
	authService interfaces.AuthService
	validate    *validator.Validate
	logger      arbor.ILogger

	mu       sync.Mutex
	limiters map[string]*loginLimiter
}

func NewAuthHandler(authService interfaces.AuthService, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
		limiters:    make(map[string]*loginLimiter),
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if !h.allowAttempt(r) {
		WriteClassifiedError(w, h.logger, common.ErrTooManyRequests)
		return
	}

	// An absent body falls through to validation; a malformed one is a
	// parse failure and classifies like every other error.
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	response, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	h.logger.Info().Str("email", req.Email).Msg("User logged in")
	WriteJSON(w, http.StatusOK, response)
}

// Me handles GET /api/auth/me. Runs behind Authenticate.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		WriteClassifiedError(w, h.logger, common.ErrNotAuthorized)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": principal,
	})
}

func (h *AuthHandler) allowAttempt(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	now := time.Now()

	h.mu.Lock()
	entry, ok := h.limiters[host]
	if !ok {
		if len(h.limiters) >= maxLoginLimiters {
			h.evictLimiters(now)
		}
		entry = &loginLimiter{limiter: rate.NewLimiter(loginRateLimit, loginRateBurst)}
		h.limiters[host] = entry
	}
	entry.lastSeen = now
	h.mu.Unlock()

	return entry.limiter.Allow()
}

// evictLimiters drops idle entries, then the oldest one if the map is
// still at capacity. Caller holds the mutex.
func (h *AuthHandler) evictLimiters(now time.Time) {
	for host, entry := range h.limiters {
		if now.Sub(entry.lastSeen) > loginLimiterTTL {
			delete(h.limiters, host)
		}
	}

	if len(h.limiters) < maxLoginLimiters {
		return
	}

	oldestHost := ""
	var oldestSeen time.Time
	for host, entry := range h.limiters {
		if oldestHost == "" || entry.lastSeen.Before(oldestSeen) {
			oldestHost = host
			oldestSeen = entry.lastSeen
		}
	}
	delete(h.limiters, oldestHost)
}
