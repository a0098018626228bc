package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"channel_feed_backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	uploadMethods   = "POST, OPTIONS"
	defaultFilename = "image.jpg"
	defaultExt      = "jpg"
)

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// BlobStore persists uploaded bytes under a minted filename.
type BlobStore interface {
	Put(ctx context.Context, filename string, data []byte) error
}

// Minter turns a base64 payload into a fresh opaque filename and URL. With a
// nil BlobStore nothing is persisted and the URL is only a reservation.
type Minter struct {
	baseURL string
	blobs   BlobStore
	newID   func() string
}

func NewMinter(baseURL string, blobs BlobStore) *Minter {
	return &Minter{
		baseURL: strings.TrimRight(baseURL, "/"),
		blobs:   blobs,
		newID:   func() string { return uuid.New().String() },
	}
}

// Mint decodes image (optionally data-URI prefixed) and returns where it
// lives. Decode failures are returned as plain errors.
func (m *Minter) Mint(ctx context.Context, image, filename string) (models.UploadResult, error) {
	if _, payload, found := strings.Cut(image, ","); found {
		image = payload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(image))
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("decode image: %w", err)
	}

	name := m.newID() + "." + extension(filename)
	if m.blobs != nil {
		if err := m.blobs.Put(ctx, name, data); err != nil {
			return models.UploadResult{}, fmt.Errorf("store image: %w", err)
		}
	}

	return models.UploadResult{
		URL:      m.baseURL + "/" + name,
		Filename: name,
		Size:     len(data),
	}, nil
}

// extension returns the lowercase extension of filename, or jpg when it is
// missing or not a short alphanumeric token.
func extension(filename string) string {
	if filename == "" {
		filename = defaultFilename
	}
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return defaultExt
	}
	ext := strings.ToLower(filename[i+1:])
	if !extPattern.MatchString(ext) {
		return defaultExt
	}
	return ext
}

type UploadHandler struct {
	minter   *Minter
	validate *validator.Validate
}

func NewUploadHandler(minter *Minter) *UploadHandler {
	return &UploadHandler{
		minter:   minter,
		validate: validator.New(),
	}
}

func (h *UploadHandler) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = recoverResponse(r)
		}
	}()

	switch req.Method {
	case http.MethodOptions:
		return preflightResponse(uploadMethods, "Content-Type")
	case http.MethodPost:
	default:
		return errorResponse(errMethodNotAllowed)
	}

	var upload models.UploadRequest
	if err := decodeBody(req.Body, &upload); err != nil {
		return errorResponse(err)
	}
	if err := h.validate.Struct(upload); err != nil {
		return errorResponse(badRequest("No image data provided"))
	}

	result, err := h.minter.Mint(ctx, upload.Image, upload.Filename)
	if err != nil {
		log.Printf("Error minting upload: %v", err)
		return errorResponse(err)
	}
	return jsonResponse(http.StatusOK, result)
}
