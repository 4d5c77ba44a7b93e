package handlers

import (
	"context"
	"net/http"

	"github.com/mak3d/quotedesk/analysis"
	"github.com/mak3d/quotedesk/api"
	"github.com/mak3d/quotedesk/internal/session"
	"go.uber.org/zap"
)

// =============================================================================
// 🔍 模型分析 Handler
// =============================================================================

// Analyzer 在会话的分析槽上运行一次分析
type Analyzer interface {
	Run(ctx context.Context, slot *analysis.Slot, reference string) (*analysis.Result, error)
}

// AnalysisHandler 模型分析处理器
type AnalysisHandler struct {
	registry *session.Registry
	analyzer Analyzer
	logger   *zap.Logger
}

// NewAnalysisHandler 创建分析处理器
func NewAnalysisHandler(registry *session.Registry, analyzer Analyzer, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		registry: registry,
		analyzer: analyzer,
		logger:   logger,
	}
}

// HandleGet 返回分析槽快照
// @Summary 分析状态
// @Description 返回进行中标记、最新结果或类型化失败
// @Tags 分析
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=analysis.Snapshot} "分析槽快照"
// @Failure 404 {object} Response "会话不存在"
// @Router /api/v1/sessions/{id}/analysis [get]
func (h *AnalysisHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	WriteSuccess(w, s.Analysis.Snapshot())
}

// HandleRun 分析模型链接
// @Summary 运行分析
// @Description 并发请求打印分析与概念图，二者都成功才返回结果。
// @Description 同一会话中较新的分析会使较旧的请求返回 409 SUPERSEDED。
// @Tags 分析
// @Accept json
// @Produce json
// @Param id path string true "会话 ID"
// @Param request body api.AnalyzeRequest true "分析请求"
// @Success 200 {object} Response{data=analysis.Result} "分析结果"
// @Failure 400 {object} Response "链接为空"
// @Failure 409 {object} Response "被较新的分析取代"
// @Failure 502 {object} Response "上游失败"
// @Router /api/v1/sessions/{id}/analysis [post]
func (h *AnalysisHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	var req api.AnalyzeRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	res, err := h.analyzer.Run(r.Context(), s.Analysis, req.Reference)
	if err != nil {
		WriteAnyError(w, err, h.logger.With(zap.String("session_id", s.ID)))
		return
	}

	WriteSuccess(w, res)
}
