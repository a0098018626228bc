package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"channel_feed_backend/middleware"
	"channel_feed_backend/models"

	"github.com/go-playground/validator/v10"
)

const postMethods = "GET, POST, PUT, DELETE, OPTIONS"

// PostRepository is one request-scoped session over the posts table.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (models.Post, error)
	Create(ctx context.Context, req models.CreatePostRequest) (models.Post, error)
	Update(ctx context.Context, id int64, fields models.PostFields) (models.Post, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// PostStore opens a PostRepository for a single invocation.
type PostStore interface {
	Open(ctx context.Context) (PostRepository, error)
}

// PostStoreFunc adapts a function to PostStore.
type PostStoreFunc func(ctx context.Context) (PostRepository, error)

func (f PostStoreFunc) Open(ctx context.Context) (PostRepository, error) { return f(ctx) }

type PostHandler struct {
	store    PostStore
	verifier middleware.Verifier
	validate *validator.Validate
}

func NewPostHandler(store PostStore, verifier middleware.Verifier) *PostHandler {
	return &PostHandler{
		store:    store,
		verifier: verifier,
		validate: validator.New(),
	}
}

// Handle serves one posts invocation. It never panics: every failure,
// including a recovered panic, becomes a JSON error response.
func (h *PostHandler) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = recoverResponse(r)
		}
	}()

	issuer, _ := h.verifier.(middleware.Issuer)
	op := route(req, issuer != nil)

	switch op {
	case opPreflight:
		return preflightResponse(postMethods, "Content-Type, "+h.verifier.HeaderName())
	case opMethodNotAllowed:
		return errorResponse(errMethodNotAllowed)
	case opLogin:
		return h.login(issuer, req)
	}

	if op.protected() && !h.verifier.Verify(req.Headers) {
		log.Printf("Rejected unauthorized %s request (%s mode)", op, h.verifier.Mode())
		return errorResponse(unauthorized("Unauthorized"))
	}

	switch op {
	case opList:
		return h.run(ctx, op, func(repo PostRepository) (int, any, error) {
			posts, err := repo.List(ctx)
			return http.StatusOK, posts, err
		})

	case opGet:
		id, err := parseID(req)
		if err != nil {
			return errorResponse(err)
		}
		return h.run(ctx, op, func(repo PostRepository) (int, any, error) {
			post, err := repo.Get(ctx, id)
			return http.StatusOK, post, err
		})

	case opCreate:
		input, err := h.decodeCreate(req.Body)
		if err != nil {
			return errorResponse(err)
		}
		return h.run(ctx, op, func(repo PostRepository) (int, any, error) {
			post, err := repo.Create(ctx, input)
			return http.StatusCreated, post, err
		})

	case opUpdate:
		id, err := parseID(req)
		if err != nil {
			return errorResponse(err)
		}
		fields, err := h.decodeUpdate(req.Body)
		if err != nil {
			return errorResponse(err)
		}
		return h.run(ctx, op, func(repo PostRepository) (int, any, error) {
			post, err := repo.Update(ctx, id, fields)
			return http.StatusOK, post, err
		})

	case opDelete:
		id, err := parseID(req)
		if err != nil {
			return errorResponse(err)
		}
		return h.run(ctx, op, func(repo PostRepository) (int, any, error) {
			err := repo.Delete(ctx, id)
			return http.StatusOK, map[string]string{"message": "Post deleted successfully"}, err
		})
	}
	return errorResponse(errMethodNotAllowed)
}

// run opens a repository session, executes fn and releases the session on
// every path, panics included.
func (h *PostHandler) run(ctx context.Context, op operation, fn func(PostRepository) (int, any, error)) Response {
	repo, err := h.store.Open(ctx)
	if err != nil {
		log.Printf("Error opening post store for %s: %v", op, err)
		return errorResponse(err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("Error releasing post store: %v", err)
		}
	}()

	status, body, err := fn(repo)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(status, body)
}

func (h *PostHandler) login(issuer middleware.Issuer, req Request) Response {
	var creds models.LoginRequest
	if err := json.Unmarshal(req.Body, &creds); err != nil {
		return errorResponse(badRequest("Invalid JSON body"))
	}
	if err := h.validate.Struct(creds); err != nil {
		return errorResponse(unauthorized("Invalid credentials"))
	}

	token, err := issuer.Issue(creds.Username, creds.Password)
	if errors.Is(err, middleware.ErrInvalidCredentials) {
		log.Printf("Failed login attempt for %q", creds.Username)
		return errorResponse(unauthorized("Invalid credentials"))
	}
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(http.StatusOK, models.AuthResponse{Token: token})
}

func (h *PostHandler) decodeCreate(body []byte) (models.CreatePostRequest, error) {
	var input models.CreatePostRequest
	if err := decodeBody(body, &input); err != nil {
		return input, err
	}
	if err := h.validate.Struct(input); err != nil {
		return input, badRequest(err.Error())
	}
	if input.Reactions == nil {
		input.Reactions = models.Reactions{}
	}
	return input, nil
}

func (h *PostHandler) decodeUpdate(body []byte) (models.PostFields, error) {
	var fields models.PostFields
	if err := decodeBody(body, &fields); err != nil {
		return fields, err
	}
	if fields.Views.Set {
		if err := h.validate.Var(fields.Views.Value, "gte=0"); err != nil {
			return fields, badRequest("views must be non-negative")
		}
	}
	if fields.Reactions.Set {
		if err := h.validate.Var(fields.Reactions.Value, "dive,gte=0"); err != nil {
			return fields, badRequest("reaction counts must be non-negative")
		}
	}
	return fields, nil
}

// decodeBody treats an empty body as an empty JSON object.
func decodeBody(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("Invalid JSON body")
	}
	return nil
}

func parseID(req Request) (int64, error) {
	raw := req.id()
	if raw == "" {
		return 0, badRequest("Post ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid post ID")
	}
	return id, nil
}
