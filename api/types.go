package api

import (
	"time"

	"github.com/mak3d/quotedesk/analysis"
	"github.com/mak3d/quotedesk/llm/gemini"
	"github.com/mak3d/quotedesk/quote"
)

// =============================================================================
// 会话类型
// =============================================================================

// SessionResponse 表示一个访客会话。
// @Description 会话结构
type SessionResponse struct {
	// 会话 ID（UUID）
	ID string `json:"id" example:"6f1c2b9e-8f0a-4a39-9a57-4b7fd0b0c0a1"`
	// 创建时间
	CreatedAt time.Time `json:"created_at"`
	// 空闲过期时长
	ExpiresIn string `json:"expires_in" example:"30m0s"`
	// 分析槽快照
	Analysis analysis.Snapshot `json:"analysis"`
	// 报价面板状态
	Quote quote.State `json:"quote"`
	// 聊天记录
	Transcript []ChatMessage `json:"transcript"`
}

// =============================================================================
// 分析类型
// =============================================================================

// AnalyzeRequest 请求对模型链接进行分析。
// @Description 分析请求结构
type AnalyzeRequest struct {
	// 模型链接或标识
	Reference string `json:"reference" example:"https://www.thingiverse.com/thing:12345/low-poly-vase" binding:"required"`
}

// =============================================================================
// 报价类型
// =============================================================================

// PrepareQuoteRequest 以链接与价格预填报价草稿。
// @Description 报价预填请求
type PrepareQuoteRequest struct {
	// 模型链接
	Reference string `json:"reference" example:"https://example.com/vase"`
	// 价格文本（原样展示，不做解析）
	Price string `json:"price" example:"$7.00"`
}

// ReferenceRequest 记录手动输入的模型链接。
// @Description 链接输入请求
type ReferenceRequest struct {
	// 模型链接
	Reference string `json:"reference" example:"https://example.com/vase"`
}

// QuoteResponse 报价面板的完整视图。
// @Description 报价面板响应
type QuoteResponse struct {
	// 草稿与面板可见性
	State quote.State `json:"state"`
	// 由草稿推导出的消息与链接
	Message quote.Message `json:"message"`
	// 发送目的地
	Destination quote.Destination `json:"destination"`
}

// =============================================================================
// 定价类型
// =============================================================================

// EstimateRequest 请求本地价格估算。
// @Description 价格估算请求
type EstimateRequest struct {
	// 耗材克数
	Grams float64 `json:"grams" example:"120"`
	// 打印小时数
	Hours float64 `json:"hours" example:"6"`
}

// =============================================================================
// 聊天类型
// =============================================================================

// ChatMessageRequest 访客发送的一条聊天消息。
// @Description 聊天消息请求
type ChatMessageRequest struct {
	// 消息文本
	Message string `json:"message" example:"Can you print in PETG?" binding:"required"`
}

// ChatMessage 聊天记录中的一条消息。
// @Description 聊天消息结构
type ChatMessage struct {
	// 角色（user、model）
	Role string `json:"role" example:"model"`
	// 消息文本
	Text string `json:"text" example:"Mak3d AI Online. How can I help?"`
}

// ChatStreamChunk 流式回复的一个分块（SSE data 与 WebSocket 帧共用）。
// @Description 流式聊天分块
type ChatStreamChunk struct {
	// 增量文本
	Delta string `json:"delta,omitempty"`
	// 是否为最后一块
	Done bool `json:"done,omitempty"`
	// 完整回复（仅在最后一块）
	Reply string `json:"reply,omitempty"`
	// 错误信息
	Error *ErrorDetail `json:"error,omitempty"`
}

// ChatMessagesFrom 将模型消息转换为 API 表示。
func ChatMessagesFrom(msgs []gemini.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessage{Role: m.Role, Text: m.Text})
	}
	return out
}

// =============================================================================
// 错误类型
// =============================================================================

// ErrorDetail 表示错误详细信息。
// @Description 错误详细结构
type ErrorDetail struct {
	// 错误代码
	Code string `json:"code" example:"UPSTREAM_QUOTA"`
	// 人类可读的错误消息
	Message string `json:"message" example:"model quota exhausted"`
	// 请求是否可以重试
	Retryable bool `json:"retryable,omitempty" example:"true"`
}
