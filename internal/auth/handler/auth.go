package handler

import (
	"encoding/json"
	"net/http"

	"slotbook/internal/auth/service"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
	admin   func(httprouter.Handle) httprouter.Handle
}

func NewAuthHandler(
	service service.AuthService,
	log *logger.Logger,
	admin func(httprouter.Handle) httprouter.Handle,
) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
		admin:   admin,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, LoginResponse{Token: token}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

// Verify confirms the caller's token is still good; the dashboard calls
// it on load to decide between the login form and the admin view.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := VerifyResponse{
		Email: middleware.AuthEmail(r.Context()),
		Role:  "admin",
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/auth/verify", h.admin(h.Verify))
}
