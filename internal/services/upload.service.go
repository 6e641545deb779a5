package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"kirayo/config"
	"kirayo/internal/logger"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrInvalidUploadPath = errors.New("invalid upload path")
	allowedUploadExts    = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".pdf": true}
	resizableUploadExts  = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	maxUploadDimensionPx = 800
	uploadJPEGQuality    = 85
)

// UploadService stores uploaded files under the configured directory.
// Images are resized down to fit 800x800 before saving; filenames are
// replaced with UUIDs so originals can never collide or traverse.
type UploadService struct {
	dir      string
	maxBytes int64
	log      logger.Logger
}

func NewUploadService(config config.Config) (*UploadService, error) {
	log := logger.New("uploadService")

	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		return nil, log.Err("failed to create upload directory", err, "dir", config.UploadDir)
	}

	return &UploadService{
		dir:      config.UploadDir,
		maxBytes: config.UploadMaxBytes,
		log:      log,
	}, nil
}

// Save validates and stores one uploaded file, returning the stored
// filename.
func (s *UploadService) Save(fileHeader *multipart.FileHeader) (string, error) {
	log := s.log.Function("Save")

	if fileHeader.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExts[ext] {
		return "", ErrUnsupportedFile
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	destination := filepath.Join(s.dir, filename)

	source, err := fileHeader.Open()
	if err != nil {
		return "", log.Err("failed to open uploaded file", err, "filename", fileHeader.Filename)
	}
	defer source.Close()

	if resizableUploadExts[ext] {
		if err := s.saveResizedImage(source, destination); err != nil {
			return "", log.Err("failed to save image", err, "filename", filename)
		}
		return filename, nil
	}

	if err := s.saveRaw(source, destination); err != nil {
		return "", log.Err("failed to save file", err, "filename", filename)
	}

	return filename, nil
}

// Resolve maps a stored filename back to a path inside the upload
// directory, rejecting traversal attempts.
func (s *UploadService) Resolve(filename string) (string, error) {
	cleaned := filepath.Clean(filename)
	if cleaned != filepath.Base(cleaned) || strings.HasPrefix(cleaned, ".") {
		return "", ErrInvalidUploadPath
	}

	path := filepath.Join(s.dir, cleaned)
	if _, err := os.Stat(path); err != nil {
		return "", ErrInvalidUploadPath
	}

	return path, nil
}

func (s *UploadService) saveResizedImage(source io.Reader, destination string) error {
	img, err := imaging.Decode(source, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxUploadDimensionPx || bounds.Dy() > maxUploadDimensionPx {
		img = imaging.Fit(img, maxUploadDimensionPx, maxUploadDimensionPx, imaging.Lanczos)
	}

	return imaging.Save(img, destination, imaging.JPEGQuality(uploadJPEGQuality))
}

func (s *UploadService) saveRaw(source io.Reader, destination string) error {
	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, source)
	return err
}
