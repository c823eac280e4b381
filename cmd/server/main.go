// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"country-insight-go/internal/config"
	"country-insight-go/internal/handler"
	"country-insight-go/internal/middleware"
	"country-insight-go/internal/repository"
	"country-insight-go/internal/service"
	"country-insight-go/pkg/countries"
	"country-insight-go/pkg/database"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"
	"country-insight-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. 加载本地 .env（GEMINI_API_KEY 等），文件不存在时静默跳过
	_ = godotenv.Load()

	// 2. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 3. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 4. 初始化 Redis（会话转录存储）
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)

	// 5. 初始化外部服务客户端
	// Gemini 凭据缺失时客户端自动降级，仪表盘等非 AI 路径不受影响
	countriesClient := countries.NewClient(cfg.Countries)
	llmClient := llm.NewClient(context.Background(), cfg.Gemini)

	// 6. 初始化 Repository 与 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.SessionTokenExpireHours)
	sessionTTL := time.Duration(cfg.Chat.SessionTTLHours) * time.Hour
	conversationRepo := repository.NewConversationRepository(database.RDB, sessionTTL)
	dashboardService := service.NewDashboardService(countriesClient)
	insightService := service.NewInsightService(countriesClient, llmClient)
	chatService := service.NewChatService(countriesClient, llmClient, conversationRepo)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// 国家目录路由组
		countriesGroup := apiV1.Group("/countries")
		{
			countriesGroup.GET("", handler.NewCountryHandler(countriesClient).ListCountries)
			countriesGroup.GET("/:name", handler.NewCountryHandler(countriesClient).GetCountry)
		}

		// 仪表盘路由组
		dashboard := apiV1.Group("/dashboard")
		{
			dashboard.GET("", handler.NewDashboardHandler(dashboardService).Overview)
			dashboard.GET("/regions", handler.NewDashboardHandler(dashboardService).Regions)
		}

		// 洞察生成路由组
		insights := apiV1.Group("/insights")
		{
			insights.POST("/travel-guide", handler.NewInsightHandler(insightService).TravelGuide)
			insights.POST("/compare", handler.NewInsightHandler(insightService).Compare)
		}

		// 对话会话路由组
		chatGroup := apiV1.Group("/chat")
		{
			chatGroup.GET("/session", handler.NewChatHandler(chatService, jwtManager).CreateSession)

			// 历史查询与会话结束需要会话令牌
			authed := chatGroup.Group("/")
			authed.Use(middleware.SessionAuthMiddleware(jwtManager))
			{
				authed.GET("/history", handler.NewChatHandler(chatService, jwtManager).History)
				authed.DELETE("/history", handler.NewChatHandler(chatService, jwtManager).EndSession)
			}
		}
	}

	// Chat 路由 (WebSocket)
	r.GET("/chat/:token", handler.NewChatHandler(chatService, jwtManager).Handle)

	// 健康检查
	r.GET("/health", handler.NewHealthHandler(llmClient).Health)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
