package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
)

const corsMaxAge = "86400"

// Request is the transport-neutral form of an inbound call. Headers must be
// canonicalized (http.Header.Set/Add) so lookups are case-insensitive.
type Request struct {
	Method  string
	Headers http.Header
	Body    []byte
	PathID  string
	Query   url.Values
}

// Response is what a handler hands back to its transport.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// EventHandler is implemented by every function the transports expose.
type EventHandler interface {
	Handle(ctx context.Context, req Request) Response
}

// id returns the identifier from the path, falling back to ?id=.
func (r Request) id() string {
	if r.PathID != "" {
		return r.PathID
	}
	return r.Query.Get("id")
}

func jsonResponse(status int, body any) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		status = http.StatusInternalServerError
		encoded = []byte(`{"error":"failed to encode response"}`)
	}
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(encoded),
	}
}

func preflightResponse(methods, allowHeaders string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": methods,
			"Access-Control-Allow-Headers": allowHeaders,
			"Access-Control-Max-Age":       corsMaxAge,
		},
		Body: "",
	}
}
