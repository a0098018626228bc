package routes

import (
	"log"
	"net/http"

	"channel_feed_backend/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Posts     *handlers.PostHandler
	Uploads   *handlers.UploadHandler
	Health    *handlers.HealthHandler
	UploadDir string
	// AuthHeader is added to the CORS allow list.
	AuthHeader string
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, h Handlers) {
	if h.Health != nil {
		r.GET("/health", h.Health.HealthCheck)
	}

	// Post routes: method dispatch happens inside the handler
	r.Any("/posts", Adapt(h.Posts))
	r.Any("/posts/:id", Adapt(h.Posts))

	// Upload routes
	r.Any("/upload", Adapt(h.Uploads))
	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}
}

// Adapt serves a transport-neutral handler through gin.
func Adapt(h handlers.EventHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			log.Printf("Error reading request body: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		resp := h.Handle(c.Request.Context(), handlers.Request{
			Method:  c.Request.Method,
			Headers: c.Request.Header,
			Body:    body,
			PathID:  c.Param("id"),
			Query:   c.Request.URL.Query(),
		})

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Status(resp.StatusCode)
		if resp.Body != "" {
			if _, err := c.Writer.WriteString(resp.Body); err != nil {
				log.Printf("Error writing response: %v", err)
			}
		}
	}
}
