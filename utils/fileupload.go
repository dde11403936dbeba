package utils

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 16MB in bytes
	MaxFileSize = 16 * 1024 * 1024
	// MaxImageDimension is the longest edge kept after normalization
	MaxImageDimension = 1200
	// JPEGQuality is used when re-encoding normalized images
	JPEGQuality = 85
	// NormalizedExtension is the extension of every re-encoded image
	NormalizedExtension = "jpg"
)

// AllowedExtensions are the image types accepted for upload
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// ResizableExtensions are decoded, flattened and re-encoded as JPEG on upload.
// GIF is accepted but stored untouched.
var ResizableExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// FileExtension returns the lower-cased text after the last dot, or "" when
// the name has no dot.
func FileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// ValidateImageFile validates the uploaded file name and size
func ValidateImageFile(filename string, size int64) error {
	if filename == "" {
		return &FileUploadError{Code: "NO_FILE_SELECTED", Message: "No file selected"}
	}

	if size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File too large. Maximum size is %dMB", MaxFileSize/(1024*1024)),
		}
	}

	if !AllowedExtensions[FileExtension(filename)] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Invalid file type. Allowed types: PNG, JPG, JPEG, GIF, WEBP",
		}
	}

	return nil
}

// GenerateFilename returns a random 32-hex name with the given extension.
// Names never derive from client input.
func GenerateFilename(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}

// SanitizeFilename rejects names that could escape the upload directory
func SanitizeFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" || name == "." ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, "/\\\x00") {
		return "", &FileUploadError{Code: "INVALID_FILENAME", Message: "Invalid filename"}
	}
	return path.Base(name), nil
}

// GetImageURL returns the URL path for accessing an uploaded image
func GetImageURL(prefix, filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/" + filename
}
