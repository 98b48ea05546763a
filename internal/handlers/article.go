package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pressroom/internal/logger"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/services"
	helpers "pressroom/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	svc services.ArticleService
}

func NewArticleHandler(svc services.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// List godoc
// @Summary      List articles
// @Description  Published articles for everyone; drafts and archived only for admins.
// @Tags         articles
// @Produce      json
// @Param        q       query  string  false  "Case-insensitive title search"
// @Param        status  query  string  false  "draft | published | archived"
// @Param        page    query  int     false  "1-based page"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  models.ArticlePage
// @Failure      400  {object}  helpers.Response
// @Router       /api/articles [get]
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ArticleFilter{
		TitleQuery: q.Get("q"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if raw := q.Get("status"); raw != "" {
		status := models.ArticleStatus(raw)
		if !status.Valid() {
			helpers.Error(w, http.StatusBadRequest, "unknown status "+strconv.Quote(raw))
			return
		}
		filter.Status = &status
	}

	page, err := h.svc.List(r.Context(), middleware.IdentityFromCtx(r.Context()), filter)
	if err != nil {
		logger.WithCtx(r.Context()).Error("article list failed", zap.Error(err))
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusOK, page)
}

// GetByID godoc
// @Summary      Get one article
// @Description  Responds 404 for drafts the caller may not see; never 403.
// @Tags         articles
// @Produce      json
// @Param        id  path  string  true  "Article ID"
// @Success      200  {object}  models.Article
// @Failure      404  {object}  helpers.Response
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.svc.GetByID(r.Context(), middleware.IdentityFromCtx(r.Context()), id)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusOK, a)
}

// Create godoc
// @Summary      Create an article (admin only)
// @Tags         admin-articles
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreateArticleRequest  true  "Article fields"
// @Success      201  {object}  models.Article
// @Failure      400  {object}  helpers.Response
// @Router       /api/admin/articles [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("invalid JSON on article create", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	a, err := h.svc.Create(r.Context(), middleware.IdentityFromCtx(r.Context()), req)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusCreated, a)
}

// Update godoc
// @Summary      Update an article (admin only)
// @Description  Partial update; unknown fields are rejected. Status changes run the publication lifecycle.
// @Tags         admin-articles
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "Article ID"
// @Param        body  body  models.UpdateArticleRequest  true  "Changed fields"
// @Success      200  {object}  models.Article
// @Failure      404  {object}  helpers.Response
// @Router       /api/admin/articles/{id} [patch]
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req models.UpdateArticleRequest
	if err := dec.Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("invalid JSON on article update", zap.String("id", id), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	a, err := h.svc.Update(r.Context(), middleware.IdentityFromCtx(r.Context()), id, req)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusOK, a)
}

// Delete godoc
// @Summary      Delete an article (admin only)
// @Tags         admin-articles
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "Article ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  helpers.Response
// @Router       /api/admin/articles/{id} [delete]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.Delete(r.Context(), middleware.IdentityFromCtx(r.Context()), id); err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusOK, map[string]bool{"ok": true})
}

// Preview godoc
// @Summary      Preview sanitized article markup (admin only)
// @Description  Returns cleaned HTML without persisting anything.
// @Tags         admin-articles
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]string  true  "Raw article HTML"
// @Success      200  {object}  map[string]string
// @Router       /api/admin/articles/preview [post]
func (h *ArticleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	type reqT struct {
		Content string `json:"content"`
	}
	var req reqT
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	helpers.Raw(w, http.StatusOK, map[string]string{"content": h.svc.PreviewHTML(req.Content)})
}
