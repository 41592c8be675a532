package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tessen/chatd/internal/adapters/ws"
	"github.com/tessen/chatd/internal/config"
	"github.com/tessen/chatd/internal/core"
)

// ClientTokenMiddleware tags every browser with a stable cookie token.
// The token is diagnostic only; command authority comes from the live
// connection, not the cookie.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, state *core.State) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChatdSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/channels", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.ChannelList())
	})
	api.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": state.Users()})
	})

	ctl := ws.NewController(state, cfg)
	api.GET("/ws/chat", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("token", c.GetString("client_token")).Msg("ws chat endpoint hit")
		ctl.HandleChat(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
