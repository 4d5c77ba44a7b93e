package handlers

import (
	"net/http"

	"github.com/mak3d/quotedesk/api"
	"github.com/mak3d/quotedesk/pricing"
	"go.uber.org/zap"
)

// PricingHandler 本地价格估算处理器
type PricingHandler struct {
	rule   pricing.Rule
	logger *zap.Logger
}

// NewPricingHandler 创建价格估算处理器
func NewPricingHandler(rule pricing.Rule, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		rule:   rule,
		logger: logger,
	}
}

// HandleEstimate 按克数与时长估算价格
// @Summary 价格估算
// @Description 按耗材克数与打印时长计算含利润的报价，不低于最低价
// @Tags 定价
// @Accept json
// @Produce json
// @Param request body api.EstimateRequest true "估算请求"
// @Success 200 {object} Response{data=pricing.Estimate} "估算结果"
// @Failure 400 {object} Response "无效请求"
// @Router /api/v1/pricing/estimate [post]
func (h *PricingHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req api.EstimateRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	est, err := h.rule.Estimate(req.Grams, req.Hours)
	if err != nil {
		WriteAnyError(w, err, h.logger)
		return
	}

	WriteSuccess(w, est)
}
