// Command lambda runs the posts or upload function behind API Gateway.
// LAMBDA_HANDLER selects which one.
package main

import (
	"context"
	"log"
	"time"

	"channel_feed_backend/config"
	"channel_feed_backend/db"
	"channel_feed_backend/handlers"
	"channel_feed_backend/routes"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	h, err := makeHandler(cfg)
	if err != nil {
		log.Fatalf("Error building %s handler: %v", cfg.LambdaHandler, err)
	}
	lambda.Start(routes.LambdaHandler(h))
}

func makeHandler(cfg *config.Config) (handlers.EventHandler, error) {
	if cfg.LambdaHandler == config.LambdaHandlerUpload {
		hs, err := routes.NewHandlers(cfg, nil)
		if err != nil {
			return nil, err
		}
		return hs.Uploads, nil
	}

	// The pool outlives single invocations; each invocation still reserves
	// and releases its own connection.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	database, err := db.Initialize(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx, database); err != nil {
		return nil, err
	}
	hs, err := routes.NewHandlers(cfg, database)
	if err != nil {
		return nil, err
	}
	return hs.Posts, nil
}
