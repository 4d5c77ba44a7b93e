package handlers

import (
	"net/http"

	"github.com/mak3d/quotedesk/api"
	"github.com/mak3d/quotedesk/internal/session"
	"github.com/mak3d/quotedesk/quote"
	"github.com/mak3d/quotedesk/types"
	"go.uber.org/zap"
)

// =============================================================================
// 📨 报价面板 Handler
// =============================================================================

// DeskRecorder 记录报价面板操作结果
type DeskRecorder interface {
	RecordDeskOperation(operation, outcome string)
}

// ErrNoAnalysis 当前会话没有可用的分析结果
var ErrNoAnalysis = types.NewError(types.ErrConflict, "no analysis result to quote").
	WithHTTPStatus(http.StatusConflict)

// QuoteHandler 报价面板处理器
type QuoteHandler struct {
	registry *session.Registry
	composer *quote.Composer
	recorder DeskRecorder
	logger   *zap.Logger
}

// NewQuoteHandler 创建报价面板处理器
func NewQuoteHandler(registry *session.Registry, composer *quote.Composer, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		registry: registry,
		composer: composer,
		logger:   logger,
	}
}

// WithRecorder 设置面板操作记录器
func (h *QuoteHandler) WithRecorder(r DeskRecorder) *QuoteHandler {
	h.recorder = r
	return h
}

// HandleGet 返回草稿、面板可见性与推导出的消息
// @Summary 报价面板状态
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Failure 404 {object} Response "会话不存在"
// @Router /api/v1/sessions/{id}/quote [get]
func (h *QuoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	WriteSuccess(w, h.view(s.Desk))
}

// HandleOpen 打开空白报价面板（保留已有字段）
// @Summary 打开面板
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Router /api/v1/sessions/{id}/quote/open [post]
func (h *QuoteHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "open", func(d *quote.Desk) error {
		d.OpenBlank()
		return nil
	})
}

// HandlePrepare 以链接与价格预填并定稿
// @Summary 预填报价
// @Tags 报价
// @Accept json
// @Produce json
// @Param id path string true "会话 ID"
// @Param request body api.PrepareQuoteRequest true "预填请求"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Router /api/v1/sessions/{id}/quote/prepare [post]
func (h *QuoteHandler) HandlePrepare(w http.ResponseWriter, r *http.Request) {
	var req api.PrepareQuoteRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	h.apply(w, r, "prepare", func(d *quote.Desk) error {
		d.PrepareQuote(req.Reference, req.Price)
		return nil
	})
}

// HandleReference 记录手动输入的链接
// @Summary 输入链接
// @Tags 报价
// @Accept json
// @Produce json
// @Param id path string true "会话 ID"
// @Param request body api.ReferenceRequest true "链接"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Router /api/v1/sessions/{id}/quote/reference [post]
func (h *QuoteHandler) HandleReference(w http.ResponseWriter, r *http.Request) {
	var req api.ReferenceRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	h.apply(w, r, "reference", func(d *quote.Desk) error {
		d.SetReference(req.Reference)
		return nil
	})
}

// HandleConfirm 定稿手动输入的草稿
// @Summary 生成报价消息
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Failure 400 {object} Response "链接为空"
// @Router /api/v1/sessions/{id}/quote/confirm [post]
func (h *QuoteHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "confirm", (*quote.Desk).ConfirmDraft)
}

// HandleReset 清空草稿
// @Summary 重置草稿
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Router /api/v1/sessions/{id}/quote/reset [post]
func (h *QuoteHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "reset", func(d *quote.Desk) error {
		d.Reset()
		return nil
	})
}

// HandleClose 关闭面板（保留字段）
// @Summary 关闭面板
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Router /api/v1/sessions/{id}/quote/close [post]
func (h *QuoteHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "close", func(d *quote.Desk) error {
		d.Close()
		return nil
	})
}

// HandleProceed 以最新分析结果预填报价
// @Summary 分析转报价
// @Description 将最新分析的链接与 fairPrice 填入草稿并打开面板
// @Tags 报价
// @Produce json
// @Param id path string true "会话 ID"
// @Success 200 {object} Response{data=api.QuoteResponse} "报价面板"
// @Failure 409 {object} Response "没有分析结果"
// @Router /api/v1/sessions/{id}/analysis/proceed [post]
func (h *QuoteHandler) HandleProceed(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	res := s.Analysis.Result()
	if res == nil {
		h.record("proceed", string(types.ErrConflict))
		WriteError(w, ErrNoAnalysis, h.logger)
		return
	}

	s.Desk.PrepareQuote(res.Reference, res.FairPrice)
	h.record("proceed", "ok")
	WriteSuccess(w, h.view(s.Desk))
}

func (h *QuoteHandler) apply(w http.ResponseWriter, r *http.Request, op string, fn func(*quote.Desk) error) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	if err := fn(s.Desk); err != nil {
		h.record(op, string(types.GetErrorCode(err)))
		WriteAnyError(w, err, h.logger)
		return
	}

	h.record(op, "ok")
	WriteSuccess(w, h.view(s.Desk))
}

func (h *QuoteHandler) view(d *quote.Desk) api.QuoteResponse {
	state := d.State()
	return api.QuoteResponse{
		State:       state,
		Message:     h.composer.Compose(state.Draft),
		Destination: h.composer.Destination(),
	}
}

func (h *QuoteHandler) record(op, outcome string) {
	if h.recorder != nil {
		h.recorder.RecordDeskOperation(op, outcome)
	}
}
