package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youngthe/gemini-demo/internal/service"
)

// ChatHandler handles the chat passthrough and the motor-command endpoint.
type ChatHandler struct {
	chat  *service.ChatService
	motor *service.MotorService
}

// NewChatHandler creates a new chat handler.
// Parameters:
//   - chat: chat passthrough service.
//   - motor: motor-command interpreter.
// Returns:
//   - *ChatHandler: initialized handler.
func NewChatHandler(chat *service.ChatService, motor *service.MotorService) *ChatHandler {
	return &ChatHandler{
		chat:  chat,
		motor: motor,
	}
}

// messageRequest is the shared body for /api/chat and /command.
type messageRequest struct {
	Message *string `json:"message"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message field must be a string",
		})
		return
	}

	text, err := h.chat.Send(c.Request.Context(), *req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "generation failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// Command handles POST /command: interprets one utterance as a motor
// command and returns the single {title, angle} object.
func (h *ChatHandler) Command(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message field must be a string",
		})
		return
	}

	cmd, err := h.motor.Interpret(c.Request.Context(), *req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to interpret command",
		})
		return
	}

	c.JSON(http.StatusOK, cmd)
}
