package routes

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"channel_feed_backend/handlers"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler serves a transport-neutral handler behind API Gateway.
func LambdaHandler(h handlers.EventHandler) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers: map[string]string{
					"Content-Type":                "application/json",
					"Access-Control-Allow-Origin": "*",
				},
				Body: `{"error":"Invalid request body encoding"}`,
			}, nil
		}
		resp := h.Handle(ctx, req)
		return events.APIGatewayProxyResponse{
			StatusCode:      resp.StatusCode,
			Headers:         resp.Headers,
			Body:            resp.Body,
			IsBase64Encoded: false,
		}, nil
	}
}

// FromAPIGateway converts a proxy event into a handlers.Request.
func FromAPIGateway(event events.APIGatewayProxyRequest) (handlers.Request, error) {
	headers := http.Header{}
	for k, values := range event.MultiValueHeaders {
		for _, v := range values {
			headers.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if headers.Get(k) == "" {
			headers.Set(k, v)
		}
	}

	query := url.Values{}
	for k, values := range event.MultiValueQueryStringParameters {
		query[k] = append(query[k], values...)
	}
	for k, v := range event.QueryStringParameters {
		if query.Get(k) == "" {
			query.Set(k, v)
		}
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return handlers.Request{}, fmt.Errorf("decode body: %w", err)
		}
		body = decoded
	}

	return handlers.Request{
		Method:  event.HTTPMethod,
		Headers: headers,
		Body:    body,
		PathID:  event.PathParameters["id"],
		Query:   query,
	}, nil
}
