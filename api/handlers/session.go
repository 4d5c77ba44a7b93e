package handlers

import (
	"net/http"

	"github.com/mak3d/quotedesk/api"
	"github.com/mak3d/quotedesk/internal/session"
	"go.uber.org/zap"
)

// =============================================================================
// 🪪 会话 Handler
// =============================================================================

// SessionHandler 访客会话处理器
type SessionHandler struct {
	registry *session.Registry
	logger   *zap.Logger
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// HandleCreate 创建新会话
// @Summary 创建会话
// @Description 创建空草稿、关闭面板、空闲分析槽与问候语的新会话
// @Tags 会话
// @Produce json
// @Success 201 {object} Response{data=api.SessionResponse} "新会话"
// @Router /api/v1/sessions [post]
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	h.logger.Info("session created", zap.String("session_id", s.ID))
	WriteCreated(w, h.view(s))
}

// HandleGet 获取会话完整视图
// @Summary 获取会话
// @Tags 会话
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.SessionResponse} "会话"
// @Failure 404 {object} Response "会话不存在"
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	WriteSuccess(w, h.view(s))
}

// HandleDelete 结束会话
// @Summary 删除会话
// @Tags 会话
// @Param id path string true "会话 ID"
// @Success 204 "已删除"
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.registry.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) view(s *session.Session) api.SessionResponse {
	return api.SessionResponse{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		ExpiresIn:  h.registry.TTL().String(),
		Analysis:   s.Analysis.Snapshot(),
		Quote:      s.Desk.State(),
		Transcript: api.ChatMessagesFrom(s.Chat.Transcript()),
	}
}
