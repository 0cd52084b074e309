package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	apperrors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/model"
	"github.com/mayank200604/HVA/internal/normalize"
	"github.com/mayank200604/HVA/internal/provider"
	"github.com/mayank200604/HVA/internal/repository"
)

// minBase64Length is the sanity threshold below which a payload cannot
// plausibly be an image.
const minBase64Length = 100

// thumbnailMaxSide bounds both dimensions of the generated thumbnail.
const thumbnailMaxSide = 512

// ImageService drives the image generation pipeline: provider call, base64
// extraction, decode, original + thumbnail persistence. Each local stage
// fails with its own tagged error so the API layer can name it.
type ImageService struct {
	registry *provider.Registry
	retrier  *provider.Retrier
	store    *repository.ImageStore
}

// NewImageService wires the image pipeline.
func NewImageService(registry *provider.Registry, retrier *provider.Retrier, store *repository.ImageStore) *ImageService {
	return &ImageService{registry: registry, retrier: retrier, store: store}
}

// imageProviderID maps the request's model field to a registry id. Both the
// short and the long name select the Hugging Face adapter; anything else is
// looked up verbatim and fails in the registry if unknown.
func imageProviderID(requested string) provider.ID {
	switch strings.ToLower(requested) {
	case "", string(provider.HuggingFace), "huggingface":
		return provider.HuggingFace
	default:
		return provider.ID(strings.ToLower(requested))
	}
}

// Generate runs one image generation request end to end and returns the
// thumbnail URL plus artifact metadata.
func (s *ImageService) Generate(ctx context.Context, req *model.ImageGenRequest) (*model.ImageGenResult, error) {
	providerID := imageProviderID(req.Model)

	// The image prompt is a single user message; no system prompt applies.
	messages := []model.Message{{Role: model.RoleUser, Content: req.Prompt}}
	params := provider.Params{MaxTokens: 1, Temperature: 0, TopP: 1}

	resp, err := s.retrier.Do(ctx, func() (provider.Response, error) {
		return s.registry.Invoke(ctx, providerID, messages, params)
	})
	if err != nil {
		return nil, err
	}

	b64, ok := normalize.ExtractImageBase64(map[string]any(resp))
	if !ok {
		return nil, fmt.Errorf("%w: no image payload in provider response", apperrors.ErrNoImage)
	}

	clean := strings.Join(strings.Fields(b64), "")
	if len(clean) < minBase64Length {
		return nil, fmt.Errorf("%w: payload length %d", apperrors.ErrImageTooSmall, len(clean))
	}

	imgBytes, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}

	mime := "image/jpeg"
	ext := "jpg"
	if strings.HasPrefix(clean, "iVBOR") {
		mime = "image/png"
		ext = "png"
	}

	imgID := uuid.NewString()
	origName := fmt.Sprintf("%s_orig.%s", imgID, ext)
	if _, err := s.store.Save(origName, imgBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSave, err)
	}

	thumbName, err := s.writeThumbnail(imgID, origName, imgBytes)
	if err != nil {
		return nil, err
	}

	slog.Info("Generated image", "id", imgID, "mime", mime, "thumbnail", thumbName)

	return &model.ImageGenResult{
		URL: "/generated_images/" + thumbName,
		Meta: model.ImageMeta{
			Mime:              mime,
			OriginalFilename:  origName,
			ThumbnailFilename: thumbName,
			Base64Length:      len(clean),
		},
	}, nil
}

// writeThumbnail produces a bounded JPEG thumbnail. When thumbnail
// processing fails the original image is reused as the thumbnail rather
// than failing the whole request; only a failure of that fallback write is
// terminal.
func (s *ImageService) writeThumbnail(imgID, origName string, imgBytes []byte) (string, error) {
	thumbName := fmt.Sprintf("%s_thumb.jpg", imgID)

	thumb, err := renderThumbnail(imgBytes)
	if err == nil {
		if _, saveErr := s.store.Save(thumbName, thumb); saveErr == nil {
			return thumbName, nil
		}
	} else {
		slog.Warn("Thumbnail processing failed, reusing original", "id", imgID, "error", err)
	}

	// Fallback: persist the raw bytes under the thumbnail name and serve the
	// original in its place.
	if _, err := s.store.Save(thumbName, imgBytes); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrThumbnail, err)
	}
	return origName, nil
}

// renderThumbnail decodes the image and re-encodes a downscaled JPEG.
func renderThumbnail(imgBytes []byte) ([]byte, error) {
	im, err := imaging.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, err
	}
	fitted := imaging.Fit(im, thumbnailMaxSide, thumbnailMaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
