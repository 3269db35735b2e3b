package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youngthe/gemini-demo/internal/logger"
	"github.com/youngthe/gemini-demo/internal/service"
)

// defaultGreeting is sent when no chat reply has been produced yet.
const defaultGreeting = "Hello! (no generated reply yet)"

// KakaoHandler handles the Kakao login redirect and OAuth callback.
type KakaoHandler struct {
	kakao *service.KakaoService
	chat  *service.ChatService
}

// NewKakaoHandler creates a new Kakao handler.
// Parameters:
//   - kakao: Kakao OAuth/messaging client.
//   - chat: chat service providing the last reply to deliver.
// Returns:
//   - *KakaoHandler: initialized handler.
func NewKakaoHandler(kakao *service.KakaoService, chat *service.ChatService) *KakaoHandler {
	return &KakaoHandler{
		kakao: kakao,
		chat:  chat,
	}
}

// Login handles GET /login/kakao: clears any stored token and redirects
// to the Kakao authorize URL.
func (h *KakaoHandler) Login(c *gin.Context) {
	h.kakao.ClearToken()
	c.Redirect(http.StatusFound, h.kakao.AuthorizeURL())
}

// Callback handles GET /oauth/kakao/callback: exchanges the code for an
// access token and delivers the last chat reply (or a default greeting)
// as a Kakao Talk memo. Failures render an HTML error page rather than
// a JSON error.
func (h *KakaoHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	if code == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte("<h2>Kakao login failed</h2><p>missing authorization code</p>"))
		return
	}

	token, err := h.kakao.ExchangeCode(ctx, code)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("Kakao token exchange failed")
		c.Data(http.StatusBadGateway, "text/html; charset=utf-8",
			[]byte("<h2>Kakao login failed</h2>"))
		return
	}

	text := h.chat.LastReply()
	if text == "" {
		text = defaultGreeting
	}

	if err := h.kakao.SendMemo(ctx, token, text); err != nil {
		logger.FromContext(ctx).WithError(err).Error("Kakao memo send failed")
		c.Data(http.StatusBadGateway, "text/html; charset=utf-8",
			[]byte("<h2>Kakao message delivery failed</h2>"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<h2>Kakao message sent!</h2>"))
}
