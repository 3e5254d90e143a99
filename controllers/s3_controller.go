package controllers

import (
	"log/slog"
	"net/http"

	"vivaah_server/middleware"
	"vivaah_server/services"
	"vivaah_server/utils"
)

// PhotoController hands out presigned upload URLs for profile photos
type PhotoController struct {
	PhotoService *services.PhotoService
	Logger       *slog.Logger
}

// NewPhotoController creates a new instance of PhotoController
func NewPhotoController(photoService *services.PhotoService, logger *slog.Logger) *PhotoController {
	return &PhotoController{PhotoService: photoService, Logger: loggerOrDefault(logger)}
}

// GeneratePresignedURL generates a presigned URL for S3 uploads
func (c *PhotoController) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	if c.PhotoService == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "photo uploads are not configured")
		return
	}
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, c.Logger, "presign upload", err)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		respondError(w, r, c.Logger, "presign upload", &services.ValidationError{Field: "fileName", Reason: "fileName and fileType are required"})
		return
	}

	upload, err := c.PhotoService.PresignUpload(r.Context(), middleware.CallerFromContext(r.Context()), payload.FileName, payload.FileType)
	if err != nil {
		respondError(w, r, c.Logger, "presign upload", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Upload URL generated",
		"upload":  upload,
	})
}
