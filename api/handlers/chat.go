package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/mak3d/quotedesk/api"
	"github.com/mak3d/quotedesk/chat"
	"github.com/mak3d/quotedesk/internal/session"
	"github.com/mak3d/quotedesk/types"
	"go.uber.org/zap"
)

// =============================================================================
// 💬 支持聊天 Handler
// =============================================================================

// ChatSender 发送一轮聊天并流式返回增量
type ChatSender interface {
	Send(ctx context.Context, conv *chat.Conversation, text string, onDelta func(string) error) (string, error)
}

// ChatHandler 支持聊天处理器
type ChatHandler struct {
	registry       *session.Registry
	sender         ChatSender
	originPatterns []string
	logger         *zap.Logger
}

// NewChatHandler 创建聊天处理器。originPatterns 为 WebSocket 允许的跨域来源
func NewChatHandler(registry *session.Registry, sender ChatSender, originPatterns []string, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		registry:       registry,
		sender:         sender,
		originPatterns: originPatterns,
		logger:         logger,
	}
}

// HandleTranscript 返回访客可见的聊天记录
// @Summary 聊天记录
// @Tags 聊天
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=[]api.ChatMessage} "聊天记录"
// @Router /api/v1/sessions/{id}/chat [get]
func (h *ChatHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	WriteSuccess(w, api.ChatMessagesFrom(s.Chat.Transcript()))
}

// HandleStream 以 SSE 流式返回回复
// @Summary 流式聊天
// @Description 每个增量作为一个 data 事件发送，最后一块带 done 与完整回复，随后是 [DONE]。
// @Description 流开始前的失败以 JSON 错误返回，开始后的失败以 error 事件返回。
// @Tags 聊天
// @Accept json
// @Produce text/event-stream
// @Param id path string true "会话 ID"
// @Param request body api.ChatMessageRequest true "聊天消息"
// @Success 200 {string} string "SSE 流"
// @Success 204 "空消息被忽略"
// @Failure 409 {object} Response "上一轮回复仍在进行"
// @Router /api/v1/sessions/{id}/chat/stream [post]
func (h *ChatHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	var req api.ChatMessageRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	rc := http.NewResponseController(w)
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		// 设置 SSE 响应头
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // 禁用 nginx 缓冲
		w.WriteHeader(http.StatusOK)
	}

	reply, err := h.sender.Send(r.Context(), s.Chat, req.Message, func(delta string) error {
		start()
		if err := writeSSE(w, "", api.ChatStreamChunk{Delta: delta}); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		typed := types.WrapError(err, types.ErrInternalError, "chat failed")
		if !started {
			WriteError(w, typed, h.logger)
			return
		}
		h.logger.Warn("chat stream failed", zap.String("session_id", s.ID), zap.Error(err))
		_ = writeSSE(w, "error", api.ChatStreamChunk{Error: errorDetail(typed)})
		_ = rc.Flush()
		return
	}

	start()
	if err := writeSSE(w, "", api.ChatStreamChunk{Done: true, Reply: reply}); err != nil {
		return
	}
	// 发送结束标记
	_, _ = w.Write([]byte("data: [DONE]\n\n"))
	_ = rc.Flush()
}

// HandleWebSocket 通过 WebSocket 进行多轮聊天
// @Summary WebSocket 聊天
// @Description 客户端发送 {"message": "..."}，服务端以 ChatStreamChunk 帧回复。
// @Tags 聊天
// @Param id path string true "会话 ID"
// @Success 101 "切换协议"
// @Failure 404 {object} Response "会话不存在"
// @Router /api/v1/sessions/{id}/chat/ws [get]
func (h *ChatHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	logger := h.logger.With(zap.String("session_id", s.ID))
	ctx := r.Context()

	for {
		var req api.ChatMessageRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				logger.Debug("websocket read ended", zap.Error(err))
			}
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			continue
		}

		reply, err := h.sender.Send(ctx, s.Chat, req.Message, func(delta string) error {
			return wsjson.Write(ctx, conn, api.ChatStreamChunk{Delta: delta})
		})

		chunk := api.ChatStreamChunk{Done: true, Reply: reply}
		if err != nil {
			chunk = api.ChatStreamChunk{Done: true, Error: errorDetail(types.WrapError(err, types.ErrInternalError, "chat failed"))}
		}
		if err := wsjson.Write(ctx, conn, chunk); err != nil {
			logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

func writeSSE(w http.ResponseWriter, event string, chunk api.ChatStreamChunk) error {
	// json.Marshal 负责转义，防止注入额外的 SSE 字段
	payload, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	var b strings.Builder
	if event != "" {
		b.WriteString("event: ")
		b.WriteString(event)
		b.WriteString("\n")
	}
	b.WriteString("data: ")
	b.Write(payload)
	b.WriteString("\n\n")
	_, err = w.Write([]byte(b.String()))
	return err
}

func errorDetail(err *types.Error) *api.ErrorDetail {
	return &api.ErrorDetail{
		Code:      string(err.Code),
		Message:   err.Message,
		Retryable: err.Retryable,
	}
}
