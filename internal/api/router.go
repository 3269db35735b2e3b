package api

import (
	"github.com/gin-gonic/gin"
	"github.com/youngthe/gemini-demo/internal/api/handler"
	"github.com/youngthe/gemini-demo/internal/api/middleware"
	"github.com/youngthe/gemini-demo/internal/config"
	"github.com/youngthe/gemini-demo/internal/logger"
	"github.com/youngthe/gemini-demo/internal/repository"
	"github.com/youngthe/gemini-demo/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	today *service.TodayService,
	chat *service.ChatService,
	motor *service.MotorService,
	kakao *service.KakaoService,
	newsRepo *repository.NewsRepository,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	todayHandler := handler.NewTodayHandler(today, newsRepo)
	newsHandler := handler.NewNewsHandler(newsRepo)
	chatHandler := handler.NewChatHandler(chat, motor)
	kakaoHandler := handler.NewKakaoHandler(kakao, chat)
	adminHandler := handler.NewAdminHandler()

	r.GET("/health", healthHandler.Health)

	// "news" dispatches to the database-backed feed inside the handler
	r.GET("/today/:category", todayHandler.GetCategory)
	r.POST("/today/news/comments", todayHandler.PostComment)

	r.POST("/api/news", newsHandler.BulkCreate)
	r.GET("/api/news", newsHandler.List)
	r.DELETE("/api/news", newsHandler.Clear)
	r.POST("/api/chat", chatHandler.Chat)

	r.POST("/command", chatHandler.Command)

	r.GET("/login/kakao", kakaoHandler.Login)
	r.GET("/oauth/kakao/callback", kakaoHandler.Callback)

	r.GET("/admin", adminHandler.Panel)

	return r
}
