package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/infrastructure/authclient"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/apikeyhandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/middlewares"
)

// Routes wires the API surface onto the engine.
type Routes struct {
	auth    *authhandler.AuthHandler
	chat    *chathandler.ChatHandler
	apiKeys *apikeyhandler.APIKeyHandler
	client  *authclient.Client
	log     zerolog.Logger
}

func New(auth *authhandler.AuthHandler, chat *chathandler.ChatHandler, apiKeys *apikeyhandler.APIKeyHandler, client *authclient.Client, log zerolog.Logger) *Routes {
	return &Routes{auth: auth, chat: chat, apiKeys: apiKeys, client: client, log: log}
}

// Register attaches all routes under /api.
func (r *Routes) Register(router gin.IRouter) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", r.auth.Login)
	auth.POST("/logout", r.auth.Logout)
	auth.POST("/refresh", middlewares.Authenticate(r.log), r.auth.Refresh)
	auth.GET("/me", r.auth.GetMe)
	auth.GET("/profile", middlewares.Authenticate(r.log), r.auth.GetProfile)

	chat := api.Group("/chat")
	chat.Use(middlewares.Authenticate(r.log), middlewares.ResolveIdentity(r.client))
	chat.GET("/conversations", r.chat.ListConversations)
	chat.POST("/conversations", r.chat.CreateConversation)
	chat.GET("/conversations/:id", r.chat.GetConversation)
	chat.PUT("/conversations/:id", r.chat.UpdateConversation)
	chat.DELETE("/conversations/:id", r.chat.DeleteConversation)
	chat.GET("/conversations/:id/messages", r.chat.GetMessages)
	chat.POST("/conversations/:id/messages", r.chat.AddMessage)

	apiKeys := api.Group("/api-keys")
	apiKeys.Use(middlewares.Authenticate(r.log))
	apiKeys.GET("/keys", r.apiKeys.GetKeys)
	apiKeys.GET("/keys/:provider", r.apiKeys.GetKeyByProvider)
}
