package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/secondchance-api/internal/domain"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Store persists uploaded images.
type Store interface {
	// Save validates and stores body, returning its public reference.
	Save(ctx context.Context, filename string, body io.Reader) (string, error)

	// Delete removes the asset behind ref. Missing assets are not an error.
	Delete(ctx context.Context, ref string) error
}

// contentTypes maps accepted sniffed content types to their file extension.
var contentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// upload is a validated image held in memory.
type upload struct {
	data        []byte
	contentType string
	name        string
}

// readImage reads at most maxBytes from body and checks that it is an
// accepted image whose header decodes. Rejections are validation errors on
// the "file" field.
func readImage(filename string, body io.Reader, maxBytes int64) (*upload, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fileError(fmt.Sprintf("must be at most %d bytes", maxBytes))
	}
	if len(data) == 0 {
		return nil, fileError("is empty")
	}

	contentType := http.DetectContentType(data)
	ext, ok := contentTypes[contentType]
	if !ok {
		return nil, fileError("must be a JPEG, PNG, GIF or WebP image")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fileError("is not a readable image")
	}

	return &upload{
		data:        data,
		contentType: contentType,
		name:        uniqueName(filename, ext),
	}, nil
}

// uniqueName prefixes a sanitised base name with a random ID and forces the
// extension to match the detected content.
func uniqueName(filename, ext string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	clean := strings.Trim(b.String(), "-")
	if len(clean) > 64 {
		clean = clean[:64]
	}
	if clean == "" {
		clean = "image"
	}

	return uuid.NewString() + "-" + clean + ext
}

func fileError(message string) error {
	return domain.NewValidationError(domain.FieldError{Field: "file", Message: message})
}
