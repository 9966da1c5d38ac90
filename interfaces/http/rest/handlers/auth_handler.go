package handlers

import (
	"encoding/json"
	"net/http"

	"botflow-backend/pkg/auth"
	"botflow-backend/pkg/common"
	apperrors "botflow-backend/pkg/errors"
	"botflow-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler issues development tokens. The route is only mounted
// when the server runs in development mode; production deployments
// receive tokens from an external identity provider.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// TokenRequest is the payload for issuing a development token.
type TokenRequest struct {
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,oneof=admin user guest"`
}

// IssueToken handles POST /api/auth/token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, apperrors.CodeValidationError, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, apperrors.CodeValidationError, err.Error())
		return
	}

	token, err := h.svc.Sign(req.UserID, req.Email, auth.Role(req.Role))
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, apperrors.CodeInternalError, "Failed to issue token")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresIn": int(h.svc.TTL().Seconds()),
	})
}
