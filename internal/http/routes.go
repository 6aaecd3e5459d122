package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/messmate/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
// uploadsDir, when non-empty, is served at /uploads for the local image host.
func SetupRoutes(router *gin.Engine, env *Env, uploadsDir string) {

	// --- Middleware ---

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// CORS: the feed is public and unauthenticated, every origin may call it.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	// --- Rate Limiter Setup ---
	limiter := NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)
	go func() {
		for {
			time.Sleep(10 * time.Minute)
			limiter.mu.Lock()
			for ip, v := range limiter.visitors {
				// A bucket back at full burst hasn't been used in a while.
				if v.Tokens() >= float64(limiter.burst) {
					delete(limiter.visitors, ip)
				}
			}
			limiter.mu.Unlock()
		}
	}()

	// --- API Routes ---

	api := router.Group("/api")
	{
		api.GET("/posts", env.GetPosts)
		api.POST("/posts", RateLimitMiddleware(limiter), env.CreatePost)
		api.GET("/posts/hotel/:name", env.GetPostsByHotel)
		api.GET("/posts/hotels/list", env.GetHotels)
	}

	// --- WebSocket Route ---

	if env.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			ws.ServeWs(env.Hub, c.Writer, c.Request)
		})
	}

	// --- Uploaded images (local image host only) ---

	if uploadsDir != "" {
		router.Static("/uploads", uploadsDir)
	}
}
