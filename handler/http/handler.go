package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insureval/src/core/chat"
	"insureval/src/core/evaluation"
	"insureval/src/ollama"
)

type Handler struct {
	chatService  *chat.Service
	pipeline     *evaluation.Pipeline
	ollamaClient *ollama.Client
	modelName    string
}

func NewHandler(chatService *chat.Service, pipeline *evaluation.Pipeline, ollamaClient *ollama.Client, modelName string) *Handler {
	return &Handler{
		chatService:  chatService,
		pipeline:     pipeline,
		ollamaClient: ollamaClient,
		modelName:    modelName,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Chat routes
	r.POST("/chat", h.Chat)

	// Evaluation routes
	eval := r.Group("/eval")
	eval.POST("/evaluate", h.Evaluate)
	eval.POST("/similarity", h.TestSimilarity)
	eval.GET("/new-questions", h.ListNewQuestions)
	eval.GET("/stats", h.GetStats)
	eval.GET("/sample", h.GetDatasetSample)
	eval.GET("/categories", h.GetDatasetCategories)

	// System routes
	r.GET("/health", h.CheckHealth)
	r.GET("/info", h.GetInfo)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	code := "INTERNAL_ERROR"
	if status == http.StatusBadRequest {
		code = "BAD_REQUEST"
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
