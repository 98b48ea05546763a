package handlers

import (
	"encoding/json"
	"net/http"

	"pressroom/internal/services"
	helpers "pressroom/internal/utils/helpres"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login godoc
// @Summary      Exchange editor credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Credentials"
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  helpers.Response
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusOK, loginResponse{AccessToken: token})
}
