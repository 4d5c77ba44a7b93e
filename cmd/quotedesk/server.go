package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mak3d/quotedesk/analysis"
	"github.com/mak3d/quotedesk/api/handlers"
	"github.com/mak3d/quotedesk/chat"
	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/internal/metrics"
	"github.com/mak3d/quotedesk/internal/server"
	"github.com/mak3d/quotedesk/internal/session"
	"github.com/mak3d/quotedesk/internal/telemetry"
	"github.com/mak3d/quotedesk/internal/tlsutil"
	"github.com/mak3d/quotedesk/llm/gemini"
	"github.com/mak3d/quotedesk/pricing"
	"github.com/mak3d/quotedesk/quote"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 quotedesk 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// 领域组件
	registry     *session.Registry
	gemini       *gemini.Client
	orchestrator *analysis.Orchestrator
	agent        *chat.Agent
	composer     *quote.Composer
	rule         pricing.Rule

	// Handlers
	healthHandler   *handlers.HealthHandler
	sessionHandler  *handlers.SessionHandler
	analysisHandler *handlers.AnalysisHandler
	quoteHandler    *handlers.QuoteHandler
	pricingHandler  *handlers.PricingHandler
	chatHandler     *handlers.ChatHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	otel *telemetry.Providers
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otel *telemetry.Providers) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		otel:   otel,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start(ctx context.Context) error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("quotedesk", s.logger)

	// 2. 初始化领域组件
	if err := s.initDomain(ctx); err != nil {
		return fmt.Errorf("failed to init domain: %w", err)
	}

	// 3. 初始化 Handlers
	s.initHandlers()

	// 4. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 5. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.Bool("gemini_configured", s.gemini != nil),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initDomain 组装 Gemini 客户端、分析编排器、客服代理、会话注册表与报价组件
func (s *Server) initDomain(ctx context.Context) error {
	s.rule = pricing.FromConfig(s.cfg.Pricing)
	s.composer = quote.NewComposer(quote.Destination{
		Email:          s.cfg.Contact.Email,
		WhatsAppNumber: s.cfg.Contact.WhatsAppNumber,
		Subject:        s.cfg.Contact.Subject,
	})

	s.registry = session.NewRegistry(s.cfg.Session, s.cfg.Chat.Greeting, s.logger)
	s.metricsCollector.TrackSessions(s.registry.Count)

	var (
		text   analysis.TextGenerator
		image  analysis.ImageGenerator
		stream chat.Streamer
	)

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      s.cfg.Gemini.APIKey,
		BaseURL:     s.cfg.Gemini.BaseURL,
		Temperature: s.cfg.Gemini.Temperature,
		HTTPClient:  tlsutil.UpstreamClient(),
	}, s.logger)
	switch {
	case err == nil:
		s.gemini = client.WithObserver(s.metricsCollector)
		text, image, stream = s.gemini, s.gemini, s.gemini
	case errors.Is(err, gemini.ErrMissingAPIKey):
		// 未配置 Key 时服务仍启动：报价、定价与会话可用，
		// 分析与聊天返回 AUTHENTICATION，/readyz 报告不就绪
		s.logger.Warn("Gemini API key not configured, analysis and chat will fail until it is set")
		unconfigured := gemini.Unconfigured{}
		text, image, stream = unconfigured, unconfigured, unconfigured
	default:
		return err
	}

	s.orchestrator = analysis.NewOrchestrator(text, image, analysis.Config{
		Models: analysis.Models{
			Text:  s.cfg.Gemini.TextModel,
			Image: s.cfg.Gemini.ImageModel,
		},
		Rule:    s.rule,
		Timeout: s.cfg.Gemini.Timeout,
	}, s.logger).WithRecorder(s.metricsCollector)

	s.agent = chat.NewAgent(stream, chat.ConfigFrom(s.cfg.Chat, s.cfg.Gemini), s.logger).
		WithRecorder(s.metricsCollector)

	return nil
}

// initHandlers 初始化所有 handlers
func (s *Server) initHandlers() {
	s.healthHandler = handlers.NewHealthHandler(Version, s.logger)
	s.healthHandler.RegisterCheck(handlers.NewFuncHealthCheck("gemini", func(context.Context) error {
		if s.gemini == nil {
			return errors.New("gemini api key not configured")
		}
		return nil
	}))

	s.sessionHandler = handlers.NewSessionHandler(s.registry, s.logger)
	s.analysisHandler = handlers.NewAnalysisHandler(s.registry, s.orchestrator, s.logger)
	s.quoteHandler = handlers.NewQuoteHandler(s.registry, s.composer, s.logger).WithRecorder(s.metricsCollector)
	s.pricingHandler = handlers.NewPricingHandler(s.rule, s.logger)
	s.chatHandler = handlers.NewChatHandler(s.registry, s.agent, s.cfg.Server.CORSAllowedOrigins, s.logger)

	s.logger.Info("Handlers initialized")
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// routes 注册全部业务与健康检查路由
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// 会话
	// ========================================
	mux.HandleFunc("POST /api/v1/sessions", s.sessionHandler.HandleCreate)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.sessionHandler.HandleGet)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.sessionHandler.HandleDelete)

	// ========================================
	// 分析
	// ========================================
	mux.HandleFunc("GET /api/v1/sessions/{id}/analysis", s.analysisHandler.HandleGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/analysis", s.analysisHandler.HandleRun)
	mux.HandleFunc("POST /api/v1/sessions/{id}/analysis/proceed", s.quoteHandler.HandleProceed)

	// ========================================
	// 报价面板
	// ========================================
	mux.HandleFunc("GET /api/v1/sessions/{id}/quote", s.quoteHandler.HandleGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/open", s.quoteHandler.HandleOpen)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/prepare", s.quoteHandler.HandlePrepare)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/reference", s.quoteHandler.HandleReference)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/confirm", s.quoteHandler.HandleConfirm)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/reset", s.quoteHandler.HandleReset)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/close", s.quoteHandler.HandleClose)

	// ========================================
	// 定价与聊天
	// ========================================
	mux.HandleFunc("POST /api/v1/pricing/estimate", s.pricingHandler.HandleEstimate)
	mux.HandleFunc("GET /api/v1/sessions/{id}/chat", s.chatHandler.HandleTranscript)
	mux.HandleFunc("POST /api/v1/sessions/{id}/chat/stream", s.chatHandler.HandleStream)
	mux.HandleFunc("GET /api/v1/sessions/{id}/chat/ws", s.chatHandler.HandleWebSocket)

	return mux
}

// handler 构建中间件链
func (s *Server) handler() http.Handler {
	return Chain(s.routes(),
		Recovery(s.logger),
		RequestID(),
		OTelTracing(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		MetricsMiddleware(s.metricsCollector),
	)
}

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager("http", s.handler(), serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.String("addr", s.httpManager.ListenAddr()))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.ReadTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager("metrics", mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.String("addr", s.metricsManager.ListenAddr()))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown(ctx context.Context) {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown(ctx)
	}
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	// 1. 关闭 HTTP 服务器（排空进行中的分析与流式回复）
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 Metrics 服务器
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// 3. 刷新遥测数据
	if s.otel != nil {
		if err := s.otel.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
