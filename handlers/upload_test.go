package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"channel_feed_backend/models"
)

type recordingBlobs struct {
	name string
	data []byte
	err  error
}

func (r *recordingBlobs) Put(_ context.Context, filename string, data []byte) error {
	r.name = filename
	r.data = data
	return r.err
}

func uploadRequest(body string) Request {
	return request(http.MethodPost, "", body)
}

func TestMintTenBytePNG(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("0123456789"))
	h := NewUploadHandler(NewMinter("https://cdn.example.com/uploads/", nil))

	resp := h.Handle(context.Background(), uploadRequest(`{"image":"`+payload+`","filename":"a.png"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, resp.Body)
	}
	result := decode[models.UploadResult](t, resp)
	if result.Size != 10 {
		t.Errorf("Size = %d, want 10", result.Size)
	}
	if !strings.HasSuffix(result.Filename, ".png") {
		t.Errorf("Filename = %q, want .png suffix", result.Filename)
	}
	if result.URL != "https://cdn.example.com/uploads/"+result.Filename {
		t.Errorf("URL = %q", result.URL)
	}
}

func TestMintStripsDataURIPrefix(t *testing.T) {
	m := NewMinter("http://localhost/uploads", nil)
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	image := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	result, err := m.Mint(context.Background(), image, "")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if result.Size != len(raw) {
		t.Errorf("Size = %d, want %d", result.Size, len(raw))
	}
	if !strings.HasSuffix(result.Filename, ".jpg") {
		t.Errorf("Filename = %q, want default .jpg", result.Filename)
	}
}

func TestMintFilenamesAreUnique(t *testing.T) {
	m := NewMinter("http://localhost/uploads", nil)
	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	first, err := m.Mint(context.Background(), payload, "a.gif")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	second, err := m.Mint(context.Background(), payload, "a.gif")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if first.Filename == second.Filename {
		t.Errorf("minted the same filename twice: %q", first.Filename)
	}
}

func TestExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"a.png", "png"},
		{"photo.JPEG", "jpeg"},
		{"archive.tar.gz", "gz"},
		{"", "jpg"},
		{"noext", "jpg"},
		{"trailing.", "jpg"},
		{"evil.png/../../etc", "jpg"},
		{"weird.p n g", "jpg"},
	}
	for _, c := range cases {
		if got := extension(c.filename); got != c.want {
			t.Errorf("extension(%q) = %q, want %q", c.filename, got, c.want)
		}
	}
}

func TestMintPersistsThroughBlobStore(t *testing.T) {
	blobs := &recordingBlobs{}
	m := NewMinter("http://localhost/uploads", blobs)
	m.newID = func() string { return "fixed-id" }

	result, err := m.Mint(context.Background(), base64.StdEncoding.EncodeToString([]byte("abc")), "x.webp")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if result.Filename != "fixed-id.webp" || blobs.name != "fixed-id.webp" {
		t.Errorf("filename = %q, stored as %q", result.Filename, blobs.name)
	}
	if string(blobs.data) != "abc" {
		t.Errorf("stored data = %q", blobs.data)
	}
}

func TestUploadErrors(t *testing.T) {
	h := NewUploadHandler(NewMinter("http://localhost/uploads", nil))
	cases := []struct {
		name   string
		req    Request
		status int
	}{
		{"no image", uploadRequest(`{"filename":"a.png"}`), http.StatusBadRequest},
		{"empty image", uploadRequest(`{"image":""}`), http.StatusBadRequest},
		{"empty body", uploadRequest(``), http.StatusBadRequest},
		{"bad base64", uploadRequest(`{"image":"@@@not base64@@@"}`), http.StatusInternalServerError},
		{"wrong method", request(http.MethodGet, "", ""), http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		resp := h.Handle(context.Background(), c.req)
		if resp.StatusCode != c.status {
			t.Errorf("%s: status = %d, want %d (body %s)", c.name, resp.StatusCode, c.status, resp.Body)
		}
		if errorOf(t, resp) == "" {
			t.Errorf("%s: missing error field", c.name)
		}
	}
}

func TestUploadStoreFailure(t *testing.T) {
	blobs := &recordingBlobs{err: errors.New("disk full")}
	h := NewUploadHandler(NewMinter("http://localhost/uploads", blobs))
	resp := h.Handle(context.Background(), uploadRequest(`{"image":"YWJj"}`))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if !strings.Contains(errorOf(t, resp), "disk full") {
		t.Errorf("body = %s", resp.Body)
	}
}

func TestUploadPreflight(t *testing.T) {
	h := NewUploadHandler(NewMinter("http://localhost/uploads", nil))
	resp := h.Handle(context.Background(), request(http.MethodOptions, "", ""))
	if resp.StatusCode != http.StatusOK || resp.Body != "" {
		t.Fatalf("preflight = %d %q", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Access-Control-Allow-Methods"] != "POST, OPTIONS" {
		t.Errorf("Allow-Methods = %q", resp.Headers["Access-Control-Allow-Methods"])
	}
}
