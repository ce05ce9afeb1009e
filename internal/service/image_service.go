package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"crowdsight/internal/authz"
	"crowdsight/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileSizeExceeded = errors.New("file size exceeds limit")
	ErrInvalidFileType  = errors.New("only image files are allowed")
	ErrEmptyFile        = errors.New("uploaded file is empty")
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

// ImageService turns uploaded images into data URLs stored on the report
type ImageService interface {
	ToDataURL(id authz.Identity, r io.Reader) (*model.ImageUpload, error)
}

type imageService struct {
	maxBytes int64
}

// NewImageService creates an ImageService accepting files up to maxBytes
func NewImageService(maxBytes int64) ImageService {
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	return &imageService{maxBytes: maxBytes}
}

func (s *imageService) ToDataURL(id authz.Identity, r io.Reader) (*model.ImageUpload, error) {
	if !id.IsAuthenticated() {
		return nil, authz.ErrUnauthenticated
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, invalid(fmt.Errorf("%w (max %d bytes)", ErrFileSizeExceeded, s.maxBytes))
	}
	if len(data) == 0 {
		return nil, invalid(ErrEmptyFile)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, invalid(ErrInvalidFileType)
	}

	return &model.ImageUpload{
		ImageURL: "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data),
		MimeType: mime.String(),
		Size:     int64(len(data)),
	}, nil
}
