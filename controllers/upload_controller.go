package controllers

import (
	"errors"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/middleware"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

// UploadController handles image uploads and serves locally stored files
type UploadController struct {
	uploads *services.UploadService
	local   *services.LocalStorage
}

// NewUploadController creates an upload controller. local may be nil when
// uploads live in object storage; GET /uploads/:filename then always 404s.
func NewUploadController(uploads *services.UploadService, local *services.LocalStorage) *UploadController {
	return &UploadController{uploads: uploads, local: local}
}

// Upload handles POST /api/upload with a single "file" form field
func (u *UploadController) Upload(c *gin.Context) {
	var fh *multipart.FileHeader
	if f, err := c.FormFile("file"); err == nil {
		fh = f
	}

	stored, err := u.uploads.UploadOne(c.Request.Context(), middleware.CurrentUser(c), fh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": stored.Filename,
		"url":      stored.URL,
		"size":     stored.Size,
	})
}

// UploadMultiple handles POST /api/upload/multiple with repeated "files" fields
func (u *UploadController) UploadMultiple(c *gin.Context) {
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["files"]
	}

	result, err := u.uploads.UploadMany(c.Request.Context(), middleware.CurrentUser(c), files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"uploaded_files": result.UploadedFiles,
		"errors":         result.Errors,
	})
}

// Delete handles DELETE /api/delete/:filename
func (u *UploadController) Delete(c *gin.Context) {
	if err := u.uploads.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("filename")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted successfully"})
}

// Serve handles GET /uploads/:filename - serves files from the local upload directory
func (u *UploadController) Serve(c *gin.Context) {
	if u.local == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	path, err := u.local.Path(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
