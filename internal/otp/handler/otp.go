package handler

import (
	"encoding/json"
	"net/http"

	"slotbook/internal/otp/service"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SendRequest struct {
	Email string `json:"email"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyResponse struct {
	Verified bool `json:"verified"`
}

type OtpHandler struct {
	service service.OtpService
	log     *logger.Logger
}

func NewOtpHandler(service service.OtpService, log *logger.Logger) *OtpHandler {
	return &OtpHandler{
		service: service,
		log:     log,
	}
}

func (h *OtpHandler) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Send", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Send(r.Context(), req.Email); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Send", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OtpHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Verify", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Verify(r.Context(), req.Email, req.Code); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Verify", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, VerifyResponse{Verified: true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OtpHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/otp/send", h.Send)
	router.POST("/api/v1/otp/verify", h.Verify)
}
