// Package media stores uploaded recipe images on the local filesystem.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/tair/foodgram/internal/recipe/domain"
)

const (
	recipesDir   = "recipes"
	maxImageSize = 10 << 20
)

var extensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// ImageStore writes images under root/recipes and returns root-relative references
type ImageStore struct {
	root string
}

// NewImageStore creates an image store rooted at the media directory
func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Root returns the media directory served under the media URL
func (s *ImageStore) Root() string {
	return s.root
}

// Save decodes a data URI or bare base64 payload and stores it
func (s *ImageStore) Save(payload string) (string, error) {
	data, err := decodePayload(payload)
	if err != nil {
		return "", invalidImage(err.Error())
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", invalidImage("upload a valid image")
	}
	ext, ok := extensions[format]
	if !ok {
		return "", invalidImage("unsupported image format " + format)
	}

	dir := filepath.Join(s.root, recipesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	ref := path.Join(recipesDir, uuid.NewString()+"."+ext)
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(ref)), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return ref, nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *ImageStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	clean := path.Clean(ref)
	if path.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid image reference %q", ref)
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func decodePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("no image was submitted")
	}

	if strings.HasPrefix(payload, "data:") {
		header, body, found := strings.Cut(payload, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, errors.New("image must be a base64 data URI")
		}
		if !strings.HasPrefix(header, "data:image/") {
			return nil, errors.New("upload a valid image")
		}
		payload = body
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageSize {
		return nil, errors.New("image is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("image is not valid base64")
	}
	return data, nil
}

func invalidImage(message string) error {
	return domain.Validation("invalid image", map[string]string{"image": message})
}
