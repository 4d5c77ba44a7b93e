// =============================================================================
// 📦 Quotedesk 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Gemini:    DefaultGeminiConfig(),
		Contact:   DefaultContactConfig(),
		Pricing:   DefaultPricingConfig(),
		Session:   DefaultSessionConfig(),
		Chat:      DefaultChatConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    3 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
	}
}

// DefaultGeminiConfig 返回默认 Gemini 配置
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		TextModel:  "gemini-2.5-flash",
		ImageModel: "gemini-2.5-flash-image",
		ChatModel:  "gemini-2.5-flash",
	}
}

// DefaultContactConfig 返回默认联系渠道
func DefaultContactConfig() ContactConfig {
	return ContactConfig{
		Email:          "tomlsampaio@gmail.com",
		WhatsAppNumber: "5521996163750",
		Subject:        "3D Printing Request",
	}
}

// DefaultPricingConfig 返回默认定价规则（PLA，60% 利润）
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MaterialCostPerGram: 0.025,
		HourlyRate:          1.00,
		Margin:              1.60,
		MinimumPrice:        3.00,
		Currency:            "$",
		Material:            "PLA",
	}
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:             30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// DefaultChatConfig 返回默认客服配置
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		SystemPrompt: "You are a 3D printing support agent. Be concise and industrial.",
		Greeting:     "Mak3d AI Online. How can I help?",
		ErrorReply:   "System Error.",
		MaxHistory:   50,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "quotedesk",
		SampleRate:   0.1,
	}
}
