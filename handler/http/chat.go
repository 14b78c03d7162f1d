package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat godoc
// @Summary Answer an insurance question
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatRequest true "User message"
// @Success 200 {object} chatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	answer, err := h.chatService.Answer(c.Request.Context(), req.Message)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, chatResponse{Response: answer})
}
