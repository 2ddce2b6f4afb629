package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/utils"
)

const (
	// JPEG quality of re-encoded uploads
	uploadJPEGQuality = 85
	bytesPerMB        = 1 << 20
)

var rasterTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadPolicy bounds one upload path
type UploadPolicy struct {
	Field        string // multipart field name the API expects
	MaxMB        int
	MaxDimension int  // longest side after downscaling; 0 keeps the size
	AllowSVG     bool // blog images accept image/svg+xml
}

// UploadService validates images before any request is made and shrinks
// oversized raster images before they are forwarded to the API
type UploadService struct {
	maxMB        int
	maxDimension int
}

// NewUploadService creates a new UploadService
func NewUploadService(maxMB, maxDimension int) *UploadService {
	return &UploadService{maxMB: maxMB, maxDimension: maxDimension}
}

// AvatarPolicy is the policy of profile avatars
func (s *UploadService) AvatarPolicy() UploadPolicy {
	return UploadPolicy{Field: "avatar", MaxMB: s.maxMB, MaxDimension: 512}
}

// BlogImagePolicy is the policy of blog post images
func (s *UploadService) BlogImagePolicy() UploadPolicy {
	return UploadPolicy{Field: "image", MaxMB: s.maxMB, MaxDimension: s.maxDimension, AllowSVG: true}
}

// ValidateUpload checks the declared size and type of a file
func ValidateUpload(size int64, contentType string, policy UploadPolicy) error {
	limit := int64(policy.MaxMB) * bytesPerMB
	if size > limit {
		return &utils.ValidationError{
			Field:   policy.Field,
			Message: fmt.Sprintf("File too large (%smb). Maximum size is %dmb.", formatMB(size), policy.MaxMB),
		}
	}
	if !allowedType(contentType, policy) {
		allowed := "JPEG, PNG, GIF or WebP"
		if policy.AllowSVG {
			allowed = "JPEG, PNG, GIF, WebP or SVG"
		}
		return &utils.ValidationError{
			Field:   policy.Field,
			Message: fmt.Sprintf("Unsupported file type %q. Please upload a %s image.", contentType, allowed),
		}
	}
	return nil
}

func allowedType(contentType string, policy UploadPolicy) bool {
	if rasterTypes[contentType] {
		return true
	}
	return policy.AllowSVG && contentType == "image/svg+xml"
}

func formatMB(size int64) string {
	return strconv.FormatFloat(float64(size)/bytesPerMB, 'f', 1, 64)
}

// Prepare validates an uploaded form file and returns the part to forward.
// Nothing is read from the file when the declared size or type is rejected.
func (s *UploadService) Prepare(file multipart.File, header *multipart.FileHeader, policy UploadPolicy) (apiclient.FilePart, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if err := ValidateUpload(header.Size, contentType, policy); err != nil {
		return apiclient.FilePart{}, err
	}

	limit := int64(policy.MaxMB) * bytesPerMB
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return apiclient.FilePart{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		// the declared size lied
		return apiclient.FilePart{}, ValidateUpload(int64(len(data)), contentType, policy)
	}

	if rasterTypes[contentType] {
		sniffed := http.DetectContentType(data)
		if sniffed != contentType {
			return apiclient.FilePart{}, &utils.ValidationError{
				Field:   policy.Field,
				Message: "The file content does not match its type.",
			}
		}
	}

	name := filepath.Base(header.Filename)
	data, err = OptimizeImage(data, contentType, policy.MaxDimension)
	if err != nil {
		return apiclient.FilePart{}, err
	}

	return apiclient.FilePart{
		Field:       policy.Field,
		Filename:    name,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// OptimizeImage downscales JPEG and PNG images whose longest side exceeds
// maxDim, keeping their format. Other formats and small images are returned
// unchanged: GIF would lose its animation and WebP has no encoder here.
func OptimizeImage(data []byte, contentType string, maxDim int) ([]byte, error) {
	var format imaging.Format
	switch contentType {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	default:
		return data, nil
	}
	if maxDim <= 0 {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &utils.ValidationError{Message: "The image could not be read."}
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	zap.S().Debugf("🔄 Resizing upload: %dx%d -> fit %d", cfg.Width, cfg.Height, maxDim)
	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(uploadJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	zap.S().Debugf("✓ Upload optimized: %d -> %d bytes", len(data), buf.Len())
	return buf.Bytes(), nil
}
