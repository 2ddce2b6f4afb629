package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/utils"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 208, G: 16, B: 18, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func upload(data []byte, name, contentType string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
	}
	return memFile{bytes.NewReader(data)}, header
}

func TestValidateUploadTooLarge(t *testing.T) {
	policy := UploadPolicy{Field: "avatar", MaxMB: 5}
	err := ValidateUpload(6*bytesPerMB+bytesPerMB/2, "image/png", policy)

	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "avatar", vErr.Field)
	assert.Equal(t, "File too large (6.5mb). Maximum size is 5mb.", vErr.Message)
}

func TestValidateUploadTypes(t *testing.T) {
	avatar := UploadPolicy{Field: "avatar", MaxMB: 5}
	blog := UploadPolicy{Field: "image", MaxMB: 5, AllowSVG: true}

	assert.NoError(t, ValidateUpload(100, "image/jpeg", avatar))
	assert.NoError(t, ValidateUpload(100, "image/webp", avatar))
	assert.Error(t, ValidateUpload(100, "image/svg+xml", avatar))
	assert.NoError(t, ValidateUpload(100, "image/svg+xml", blog))
	assert.Error(t, ValidateUpload(100, "application/pdf", blog))
}

func TestOptimizeImageDownscalesLargePNG(t *testing.T) {
	out, err := OptimizeImage(pngBytes(t, 400, 200), "image/png", 100)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestOptimizeImageKeepsSmallImagesAndOtherFormats(t *testing.T) {
	small := pngBytes(t, 40, 40)
	out, err := OptimizeImage(small, "image/png", 100)
	require.NoError(t, err)
	assert.Equal(t, small, out)

	gif := []byte("GIF89a not really decoded")
	out, err = OptimizeImage(gif, "image/gif", 10)
	require.NoError(t, err)
	assert.Equal(t, gif, out)
}

func TestPrepareRejectsMismatchedContent(t *testing.T) {
	svc := NewUploadService(5, 1600)
	file, header := upload([]byte("<html>not an image</html>"), "cat.png", "image/png")

	_, err := svc.Prepare(file, header, svc.AvatarPolicy())
	var vErr *utils.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "The file content does not match its type.", vErr.Message)
}

func TestPrepareShrinksAvatar(t *testing.T) {
	svc := NewUploadService(5, 1600)
	file, header := upload(pngBytes(t, 1024, 1024), "../../me.png", "image/png; charset=binary")

	part, err := svc.Prepare(file, header, svc.AvatarPolicy())
	require.NoError(t, err)
	assert.Equal(t, "avatar", part.Field)
	assert.Equal(t, "me.png", part.Filename)
	assert.Equal(t, "image/png", part.ContentType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(part.Data))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
}
