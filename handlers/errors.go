package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"channel_feed_backend/db"
)

// apiError is a failure the caller is meant to see verbatim.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(message string) error   { return &apiError{http.StatusBadRequest, message} }
func unauthorized(message string) error { return &apiError{http.StatusUnauthorized, message} }

var errMethodNotAllowed = &apiError{http.StatusMethodNotAllowed, "Method not allowed"}

// errorResponse maps err onto the status taxonomy. Anything unrecognised is
// a 500 carrying the underlying message.
func errorResponse(err error) Response {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		return jsonResponse(apiErr.status, map[string]string{"error": apiErr.message})
	case errors.Is(err, db.ErrPostNotFound):
		return jsonResponse(http.StatusNotFound, map[string]string{"error": "Post not found"})
	default:
		log.Printf("Unhandled error: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// recoverResponse turns a panic value into a 500 response.
func recoverResponse(r any) Response {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	log.Printf("Recovered from panic: %v", err)
	return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
