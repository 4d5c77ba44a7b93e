// MockGenerator 的 Gemini 生成器测试模拟实现。
//
// 同时满足 analysis.TextGenerator、analysis.ImageGenerator 与 chat.Streamer，
// 支持固定响应、流式输出、错误注入与调用记录。
package mocks

import (
	"context"
	"sync"

	"github.com/mak3d/quotedesk/llm/gemini"
)

// --- MockGenerator 结构 ---

// MockGenerator 是 Gemini 客户端的模拟实现
type MockGenerator struct {
	mu sync.Mutex

	// 响应配置
	text         string
	image        *gemini.InlineImage
	streamChunks []string
	textErr      error
	imageErr     error
	streamErr    error

	// 自定义行为
	textFunc   func(ctx context.Context, req gemini.StructuredRequest) (string, error)
	imageFunc  func(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error)
	streamFunc func(ctx context.Context, req gemini.ChatRequest, onDelta func(string) error) (string, error)

	// 调用记录
	textCalls   []gemini.StructuredRequest
	imageCalls  []gemini.ImageRequest
	streamCalls []gemini.ChatRequest
}

// --- 构造函数和 Builder 方法 ---

// NewMockGenerator 创建新的 MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		text: `{"analysis":"Mock analysis","risks":"Mock risks","settings":"Mock settings","fairPrice":"$3.00"}`,
	}
}

// WithText 设置结构化文本响应
func (m *MockGenerator) WithText(text string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return m
}

// WithImage 设置图片响应（nil 表示模型未返回图片）
func (m *MockGenerator) WithImage(mimeType string, data []byte) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = &gemini.InlineImage{MIMEType: mimeType, Data: data}
	return m
}

// WithStreamChunks 设置流式响应块
func (m *MockGenerator) WithStreamChunks(chunks ...string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamChunks = chunks
	return m
}

// WithTextError 注入文本请求错误
func (m *MockGenerator) WithTextError(err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textErr = err
	return m
}

// WithImageError 注入图片请求错误
func (m *MockGenerator) WithImageError(err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageErr = err
	return m
}

// WithStreamError 注入流式请求错误（在输出已配置的块之后返回）
func (m *MockGenerator) WithStreamError(err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamErr = err
	return m
}

// WithTextFunc 设置自定义文本处理函数
func (m *MockGenerator) WithTextFunc(fn func(ctx context.Context, req gemini.StructuredRequest) (string, error)) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textFunc = fn
	return m
}

// WithImageFunc 设置自定义图片处理函数
func (m *MockGenerator) WithImageFunc(fn func(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error)) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageFunc = fn
	return m
}

// WithStreamFunc 设置自定义流式处理函数
func (m *MockGenerator) WithStreamFunc(fn func(ctx context.Context, req gemini.ChatRequest, onDelta func(string) error) (string, error)) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamFunc = fn
	return m
}

// --- 接口实现 ---

// GenerateStructured 实现 analysis.TextGenerator
func (m *MockGenerator) GenerateStructured(ctx context.Context, req gemini.StructuredRequest) (string, error) {
	m.mu.Lock()
	m.textCalls = append(m.textCalls, req)
	fn, text, err := m.textFunc, m.text, m.textErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateImage 实现 analysis.ImageGenerator
func (m *MockGenerator) GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.InlineImage, error) {
	m.mu.Lock()
	m.imageCalls = append(m.imageCalls, req)
	fn, img, err := m.imageFunc, m.image, m.imageErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// StreamChat 实现 chat.Streamer
func (m *MockGenerator) StreamChat(ctx context.Context, req gemini.ChatRequest, onDelta func(string) error) (string, error) {
	m.mu.Lock()
	history := make([]gemini.Message, len(req.History))
	copy(history, req.History)
	req.History = history
	m.streamCalls = append(m.streamCalls, req)
	fn, chunks, streamErr := m.streamFunc, m.streamChunks, m.streamErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req, onDelta)
	}

	var full string
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return full, err
		}
		full += c
		if onDelta != nil {
			if err := onDelta(c); err != nil {
				return full, err
			}
		}
	}
	if streamErr != nil {
		return full, streamErr
	}
	return full, nil
}

// --- 调用记录 ---

// TextCalls 返回文本请求记录
func (m *MockGenerator) TextCalls() []gemini.StructuredRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gemini.StructuredRequest(nil), m.textCalls...)
}

// ImageCalls 返回图片请求记录
func (m *MockGenerator) ImageCalls() []gemini.ImageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gemini.ImageRequest(nil), m.imageCalls...)
}

// StreamCalls 返回流式请求记录
func (m *MockGenerator) StreamCalls() []gemini.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gemini.ChatRequest(nil), m.streamCalls...)
}

// Reset 清空调用记录
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls = nil
	m.imageCalls = nil
	m.streamCalls = nil
}
