package http

import (
	"context"
	"net/http"
	"time"

	"github.com/pmorel/tasklane/internal/auth/service"
	"github.com/pmorel/tasklane/internal/common/config"
	commonhttp "github.com/pmorel/tasklane/internal/common/http"
	"github.com/pmorel/tasklane/internal/common/logger"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	auth    *service.AuthService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(auth *service.AuthService, cfg config.Config, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:    auth,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: cfg.RequestTimeout,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", h.accounts)
	mux.HandleFunc("/sessions", h.sessions)
	mux.HandleFunc("/sessions/refresh", h.refresh)
	return mux
}

func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	accountID, err := h.auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{UserID: string(accountID)})
}

func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.login(w, r)
	case http.MethodDelete:
		h.logout(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	setRefreshCookie(w, r, result.RefreshToken, result.RefreshExpiresAt)
	commonhttp.WriteJSON(w, http.StatusOK, sessionResponse{
		Token:  result.AccessToken,
		UserID: string(result.AccountID),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.auth.Logout(ctx, cookie.Value); err != nil {
			h.log.Errorf("logout revoke failed: %v", err)
		}
	}

	clearRefreshCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingRefreshToken, "missing refresh token", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Refresh(ctx, cookie.Value)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	setRefreshCookie(w, r, result.RefreshToken, result.RefreshExpiresAt)
	commonhttp.WriteJSON(w, http.StatusOK, refreshResponse{Token: result.AccessToken})
}

func setRefreshCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	if token == "" {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/sessions",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}

func clearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/sessions",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}
