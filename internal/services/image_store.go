package services

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vitrina/internal/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Cover images are downscaled to fit this box.
const (
	CoverMaxWidth  = 440
	CoverMaxHeight = 680

	// MaxCoverPixels bounds the decoded size of an upload.
	MaxCoverPixels = 40_000_000
)

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ImageUpload is an image file received with a form.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ImageStore stores uploaded images under opaque names.
type ImageStore interface {
	Save(upload *ImageUpload) (string, error)
	Remove(name string) error
}

// DiskImageStore keeps images in a directory that is served back by file name.
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates the directory if needed.
func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskImageStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *DiskImageStore) Dir() string {
	return s.dir
}

// Save decodes the upload, shrinks it to fit CoverMaxWidth x CoverMaxHeight keeping the
// aspect ratio, and writes it under a random name with the original extension.
func (s *DiskImageStore) Save(upload *ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedImageExts[ext] {
		return "", models.NewValidationError("cover", "only jpg, jpeg and png images are allowed")
	}

	// The header is read first so a small file declaring huge dimensions is refused
	// before any pixel buffer is allocated.
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(upload.Content, &head))
	if err != nil {
		return "", models.NewValidationError("cover", "the file is not a readable image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxCoverPixels {
		return "", models.NewValidationError("cover", "the image is too large")
	}

	img, err := imaging.Decode(io.MultiReader(&head, upload.Content), imaging.AutoOrientation(true))
	if err != nil {
		return "", models.NewValidationError("cover", "the file is not a readable image")
	}
	img = imaging.Fit(img, CoverMaxWidth, CoverMaxHeight, imaging.Lanczos)

	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:16] + ext
	if err := imaging.Save(img, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored image. The default cover is never removed.
func (s *DiskImageStore) Remove(name string) error {
	if name == "" || name == models.DefaultCover {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}
