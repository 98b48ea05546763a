package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"pressroom/internal/logger"
	"pressroom/internal/middleware"
	"pressroom/internal/services"
	helpers "pressroom/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type MediaHandler struct {
	svc *services.MediaService
}

func NewMediaHandler(svc *services.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Upload godoc
// @Summary      Upload a media object (admin only)
// @Description  Multipart upload; returns the stored path and its public URL.
// @Tags         admin-media
// @Security     ApiKeyAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Object to store"
// @Success      201  {object}  services.UploadedObject
// @Failure      400  {object}  helpers.Response
// @Router       /api/admin/media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		log.Warn("multipart parse failed on media upload", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("file part missing on media upload", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "file part missing")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	obj, err := h.svc.Upload(r.Context(), middleware.IdentityFromCtx(r.Context()),
		header.Filename, mimeType, header.Size, file)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	helpers.Raw(w, http.StatusCreated, obj)
}

// List godoc
// @Summary      List stored media objects (admin only)
// @Tags         admin-media
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/admin/media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	paths, err := h.svc.List(r.Context(), middleware.IdentityFromCtx(r.Context()))
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	if paths == nil {
		paths = []string{}
	}

	helpers.JSON(w, http.StatusOK, paths)
}

// Serve streams a public object back to anonymous readers. Private
// buckets answer 404.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bucket, objectPath := vars["bucket"], vars["path"]

	obj, err := h.svc.Open(bucket, objectPath)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	defer obj.Close()

	if ct := mime.TypeByExtension(filepath.Ext(objectPath)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = io.Copy(w, obj)
}
