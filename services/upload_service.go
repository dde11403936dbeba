package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/metrics"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/utils"
)

// UploadedFile describes one stored upload
type UploadedFile struct {
	OriginalName string `json:"original_name,omitempty"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	Size         int    `json:"size"`
}

// BatchResult is the outcome of a multi-file upload. Per-file failures do
// not abort the batch.
type BatchResult struct {
	UploadedFiles []UploadedFile `json:"uploaded_files"`
	Errors        []string       `json:"errors"`
}

// UploadService validates, normalizes and stores user images
type UploadService struct {
	storage Storage
	metrics *metrics.Metrics
}

// NewUploadService creates an upload service writing to storage. m may be nil.
func NewUploadService(storage Storage, m *metrics.Metrics) *UploadService {
	return &UploadService{storage: storage, metrics: m}
}

// UploadOne stores a single image
func (s *UploadService) UploadOne(ctx context.Context, user *models.User, fh *multipart.FileHeader) (*UploadedFile, error) {
	if user == nil {
		return nil, unauthenticatedError("Authentication required")
	}
	if fh == nil {
		return nil, validationError("No file provided")
	}
	if err := utils.ValidateImageFile(fh.Filename, fh.Size); err != nil {
		s.record("rejected")
		return nil, uploadValidationError(err)
	}

	stored, err := s.store(ctx, fh)
	if err != nil {
		s.record("failed")
		return nil, err
	}
	s.record("stored")

	logging.FromContext(ctx).Info("image uploaded", "user_id", user.ID, "filename", stored.Filename, "size", stored.Size)
	return stored, nil
}

// UploadMany stores each file independently. Empty filenames are skipped and
// failures are reported as "<name>: <reason>".
func (s *UploadService) UploadMany(ctx context.Context, user *models.User, files []*multipart.FileHeader) (*BatchResult, error) {
	if user == nil {
		return nil, unauthenticatedError("Authentication required")
	}
	if len(files) == 0 {
		return nil, validationError("No files provided")
	}

	result := &BatchResult{UploadedFiles: []UploadedFile{}, Errors: []string{}}
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		if err := utils.ValidateImageFile(fh.Filename, fh.Size); err != nil {
			s.record("rejected")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fh.Filename, batchReason(err)))
			continue
		}

		stored, err := s.store(ctx, fh)
		if err != nil {
			s.record("failed")
			logging.FromContext(ctx).Error("batch upload failed", "filename", fh.Filename, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fh.Filename, err.Error()))
			continue
		}
		s.record("stored")

		stored.OriginalName = fh.Filename
		result.UploadedFiles = append(result.UploadedFiles, *stored)
	}

	logging.FromContext(ctx).Info("batch upload finished",
		"user_id", user.ID, "uploaded", len(result.UploadedFiles), "errors", len(result.Errors))
	return result, nil
}

// Delete removes a stored upload by name. Uploads live in one shared
// namespace; any signed-in user may delete any name.
func (s *UploadService) Delete(ctx context.Context, user *models.User, filename string) error {
	if user == nil {
		return unauthenticatedError("Authentication required")
	}
	name, err := utils.SanitizeFilename(filename)
	if err != nil {
		return validationError("Invalid filename")
	}

	if err := s.storage.Delete(ctx, name); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return notFoundError("File not found")
		}
		return err
	}

	logging.FromContext(ctx).Info("image deleted", "user_id", user.ID, "filename", name)
	return nil
}

func (s *UploadService) store(ctx context.Context, fh *multipart.FileHeader) (*UploadedFile, error) {
	data, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	if len(data) > utils.MaxFileSize {
		return nil, uploadValidationError(utils.ValidateImageFile(fh.Filename, int64(len(data))))
	}

	ext := utils.FileExtension(fh.Filename)
	contentType := contentTypes[ext]
	if utils.ResizableExtensions[ext] {
		normalized, err := NormalizeImage(data)
		if err != nil {
			logging.FromContext(ctx).Warn("image normalization failed, storing original",
				"filename", fh.Filename, "error", err)
		} else {
			data = normalized
			ext = utils.NormalizedExtension
			contentType = "image/jpeg"
		}
	}

	name := utils.GenerateFilename(ext)
	if err := s.storage.Save(ctx, name, data, contentType); err != nil {
		return nil, err
	}
	url, err := s.storage.URL(ctx, name)
	if err != nil {
		return nil, err
	}

	return &UploadedFile{Filename: name, URL: url, Size: len(data)}, nil
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, utils.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *UploadService) record(result string) {
	if s.metrics != nil {
		s.metrics.Uploads.WithLabelValues(result).Inc()
	}
}

func uploadValidationError(err error) error {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		return &Error{Kind: ErrValidation, Message: uploadErr.Message}
	}
	return validationError("%s", err.Error())
}

// batchReason shortens validation failures for the per-file error list
func batchReason(err error) string {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		switch uploadErr.Code {
		case "FILE_TOO_LARGE":
			return "File too large"
		case "INVALID_FILE_FORMAT":
			return "Invalid file type"
		}
		return uploadErr.Message
	}
	return err.Error()
}
