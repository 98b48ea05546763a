package handlers

import (
	"encoding/json"
	"net/http"

	"pressroom/internal/logger"
	"pressroom/internal/services"
	helpers "pressroom/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	registry services.AdminRegistry
}

func NewAdminHandler(registry services.AdminRegistry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

type grantAdminRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Grant godoc
// @Summary      Grant admin privilege (admin only)
// @Description  Idempotent; granting an existing admin changes nothing.
// @Tags         admin-registry
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  grantAdminRequest  true  "Identity to promote"
// @Success      201  {object}  helpers.Response
// @Failure      400  {object}  helpers.Response
// @Router       /api/admin/admins [post]
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.registry.Grant(r.Context(), req.UserID, req.Email); err != nil {
		logger.WithCtx(r.Context()).Error("admin grant failed", zap.Error(err))
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, "admin granted")
}

// Revoke godoc
// @Summary      Revoke admin privilege (admin only)
// @Tags         admin-registry
// @Security     ApiKeyAuth
// @Produce      json
// @Param        email  path  string  true  "Admin email"
// @Success      200  {object}  helpers.Response
// @Router       /api/admin/admins/{email} [delete]
func (h *AdminHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	if err := h.registry.Revoke(r.Context(), email); err != nil {
		logger.WithCtx(r.Context()).Error("admin revoke failed", zap.Error(err))
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "admin revoked")
}

// List godoc
// @Summary      List admin registry entries (admin only)
// @Tags         admin-registry
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}  models.AdminUser
// @Router       /api/admin/admins [get]
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.List(r.Context())
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, list)
}
