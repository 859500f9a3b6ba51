package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupHealthRoutes registers the health endpoint. rdb may be nil when the
// content store is not configured; it is then reported as disabled rather
// than unhealthy.
func SetupHealthRoutes(router *gin.Engine, mongoClient *mongo.Client, rdb *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK
		components := gin.H{}

		if err := mongoClient.Ping(ctx, nil); err != nil {
			components["mongodb"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			components["mongodb"] = "healthy"
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				// Redis is optional; content reads degrade to the
				// fallback cache, so the service stays up.
				components["redis"] = "unhealthy"
			} else {
				components["redis"] = "healthy"
			}
		} else {
			components["redis"] = "disabled"
		}

		c.JSON(status, gin.H{
			"status":     statusLabel(status),
			"components": components,
			"timestamp":  time.Now().UTC(),
		})
	})
}

func statusLabel(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
