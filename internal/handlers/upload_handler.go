package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-api/internal/apperr"
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) (*UploadHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadHandler{dir: dir}, nil
}

// Upload guarda una imagen con nombre único y devuelve su URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, apperr.InvalidArgument("file is required"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		abortWithError(c, apperr.InvalidArgument("file type not allowed: "+contentType))
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, filename)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":     filename,
		"url":          "/api/upload/" + filename,
		"content_type": contentType,
		"size":         file.Size,
	})
}

// Serve entrega un archivo subido.
func (h *UploadHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || filepath.Base(filename) != filename {
		abortWithError(c, apperr.InvalidArgument("invalid filename"))
		return
	}

	path := filepath.Join(h.dir, filename)
	if _, err := os.Stat(path); err != nil {
		abortWithError(c, apperr.NotFound("file not found"))
		return
	}
	c.File(path)
}
