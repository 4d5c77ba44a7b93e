// =============================================================================
// 📦 Quotedesk 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("QUOTEDESK").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"net/mail"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GeminiAPIKeyEnv 是 Gemini 官方 SDK 约定的环境变量，作为 api_key 的兜底来源。
const GeminiAPIKeyEnv = "GEMINI_API_KEY"

// =============================================================================
// 🎯 核心配置结构
// =============================================================================

// Config 是 quotedesk 的完整配置结构
type Config struct {
	// Server 服务器配置
	Server ServerConfig `yaml:"server" env:"SERVER"`

	// Gemini 模型服务配置
	Gemini GeminiConfig `yaml:"gemini" env:"GEMINI"`

	// Contact 报价联系渠道
	Contact ContactConfig `yaml:"contact" env:"CONTACT"`

	// Pricing 定价规则
	Pricing PricingConfig `yaml:"pricing" env:"PRICING"`

	// Session 会话存储配置
	Session SessionConfig `yaml:"session" env:"SESSION"`

	// Chat 客服对话配置
	Chat ChatConfig `yaml:"chat" env:"CHAT"`

	// Log 日志配置
	Log LogConfig `yaml:"log" env:"LOG"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTP 端口
	HTTPPort int `yaml:"http_port" env:"HTTP_PORT"`
	// Metrics 端口
	MetricsPort int `yaml:"metrics_port" env:"METRICS_PORT"`
	// 读取超时
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	// 写入超时（需覆盖一次完整的分析周期与流式对话）
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// 优雅关闭超时
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// CORS 允许的来源，空表示不启用跨域
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	// API Key，留空时回退到 GEMINI_API_KEY
	APIKey string `yaml:"api_key" env:"API_KEY"`
	// 基础 URL（可选，测试时指向本地桩服务）
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// 结构化文本分析模型
	TextModel string `yaml:"text_model" env:"TEXT_MODEL"`
	// 预览图生成模型
	ImageModel string `yaml:"image_model" env:"IMAGE_MODEL"`
	// 客服对话模型
	ChatModel string `yaml:"chat_model" env:"CHAT_MODEL"`
	// 单次分析周期超时，0 表示不设超时
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// 温度参数，0 表示使用模型默认值
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
}

// ContactConfig 报价消息的投递目标
type ContactConfig struct {
	// 邮箱地址
	Email string `yaml:"email" env:"EMAIL"`
	// WhatsApp 号码（国际格式，不含 +）
	WhatsAppNumber string `yaml:"whatsapp_number" env:"WHATSAPP_NUMBER"`
	// 邮件主题
	Subject string `yaml:"subject" env:"SUBJECT"`
}

// PricingConfig 定价规则，写入分析提示词并驱动本地估价
type PricingConfig struct {
	// 材料单价（每克）
	MaterialCostPerGram float64 `yaml:"material_cost_per_gram" env:"MATERIAL_COST_PER_GRAM"`
	// 每小时电费与损耗
	HourlyRate float64 `yaml:"hourly_rate" env:"HOURLY_RATE"`
	// 利润系数
	Margin float64 `yaml:"margin" env:"MARGIN"`
	// 最低起步价
	MinimumPrice float64 `yaml:"minimum_price" env:"MINIMUM_PRICE"`
	// 货币符号
	Currency string `yaml:"currency" env:"CURRENCY"`
	// 默认材料
	Material string `yaml:"material" env:"MATERIAL"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	// 空闲过期时间
	TTL time.Duration `yaml:"ttl" env:"TTL"`
	// 过期清理间隔
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CLEANUP_INTERVAL"`
}

// ChatConfig 客服对话配置
type ChatConfig struct {
	// 系统提示词
	SystemPrompt string `yaml:"system_prompt" env:"SYSTEM_PROMPT"`
	// 开场白
	Greeting string `yaml:"greeting" env:"GREETING"`
	// 出错时写入对话的固定回复
	ErrorReply string `yaml:"error_reply" env:"ERROR_REPLY"`
	// 保留的最大消息数，0 表示不限制
	MaxHistory int `yaml:"max_history" env:"MAX_HISTORY"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// 输出格式: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// 输出路径
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	// 是否启用调用者信息
	EnableCaller bool `yaml:"enable_caller" env:"ENABLE_CALLER"`
	// 是否启用堆栈跟踪
	EnableStacktrace bool `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	// 是否启用
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// OTLP 端点
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// 服务名称
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// 采样率
	SampleRate float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// =============================================================================
// 🔧 配置加载器
// =============================================================================

// Loader 配置加载器（Builder 模式）
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建新的配置加载器
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "QUOTEDESK",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	// 1. 从默认值开始
	cfg := DefaultConfig()

	// 2. 如果指定了配置文件，从文件加载
	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// 3. 从环境变量覆盖
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 4. API Key 兜底
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv(GeminiAPIKeyEnv)
	}

	// 5. 运行验证器
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile 从 YAML 文件加载配置
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 文件不存在，使用默认值
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadFromEnv 从环境变量加载配置
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv 递归设置结构体字段
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		// 嵌套结构体递归处理
		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// 特殊处理 time.Duration
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 逗号分隔的字符串切片
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// =============================================================================
// 🔍 辅助函数
// =============================================================================

// MustLoad 加载配置，失败时 panic
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// LoadFromEnv 仅从环境变量加载配置
func LoadFromEnv() (*Config, error) {
	return NewLoader().Load()
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	// 服务器
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, "invalid metrics port")
	}

	// 模型
	if c.Gemini.TextModel == "" || c.Gemini.ImageModel == "" || c.Gemini.ChatModel == "" {
		errs = append(errs, "gemini models must not be empty")
	}
	if c.Gemini.Timeout < 0 {
		errs = append(errs, "gemini timeout must not be negative")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, "temperature must be between 0 and 2")
	}

	// 联系渠道
	if c.Contact.Email != "" {
		if _, err := mail.ParseAddress(c.Contact.Email); err != nil {
			errs = append(errs, "contact email is not a valid address")
		}
	}
	for _, r := range c.Contact.WhatsAppNumber {
		if r < '0' || r > '9' {
			errs = append(errs, "whatsapp number must contain digits only")
			break
		}
	}

	// 定价
	if c.Pricing.MaterialCostPerGram < 0 || c.Pricing.HourlyRate < 0 || c.Pricing.MinimumPrice < 0 {
		errs = append(errs, "pricing rates must not be negative")
	}
	if c.Pricing.Margin < 1 {
		errs = append(errs, "pricing margin must be at least 1")
	}

	// 会话
	if c.Session.TTL <= 0 {
		errs = append(errs, "session ttl must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
