package apikeyhandler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zelican/chat-api/internal/config"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/responses"
)

// APIKeyHandler serves the provider credentials configured for this
// deployment so browser clients never need them baked into bundles.
type APIKeyHandler struct {
	cfg *config.Config
}

func New(cfg *config.Config) *APIKeyHandler {
	return &APIKeyHandler{cfg: cfg}
}

func (h *APIKeyHandler) keys() map[string]string {
	out := map[string]string{}
	if h.cfg.GroqAPIKey != "" {
		out["groq"] = h.cfg.GroqAPIKey
	}
	if h.cfg.AnthropicAPIKey != "" {
		out["anthropic"] = h.cfg.AnthropicAPIKey
	}
	if h.cfg.OpenAIAPIKey != "" {
		out["openai"] = h.cfg.OpenAIAPIKey
	}
	return out
}

// GetKeys returns every configured provider key.
func (h *APIKeyHandler) GetKeys(c *gin.Context) {
	responses.OK(c, http.StatusOK, gin.H{"keys": h.keys()})
}

// GetKeyByProvider returns a single provider's key.
func (h *APIKeyHandler) GetKeyByProvider(c *gin.Context) {
	provider := strings.ToLower(c.Param("provider"))
	switch provider {
	case "groq", "anthropic", "openai":
	default:
		responses.Fail(c, http.StatusBadRequest, "Unknown provider")
		return
	}

	key, ok := h.keys()[provider]
	if !ok {
		responses.Fail(c, http.StatusNotFound, "Provider key not configured")
		return
	}
	responses.OK(c, http.StatusOK, gin.H{"provider": provider, "key": key})
}
