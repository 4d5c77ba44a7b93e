// 版权所有 2026 Quotedesk Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖 HTTP、
模型生成、分析周期、客服对话与报价草稿操作。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离。

# 核心类型

  - Collector：指标收集器，同时实现 gemini.Observer、
    analysis.Recorder 与 chat.Recorder。

# 主要能力

  - HTTP 指标：请求总数、耗时、请求/响应体大小，状态码归类为 2xx/3xx/4xx/5xx。
  - 生成指标：按 kind/model/status 统计结构化文本、图片与对话请求。
  - 分析指标：按结果（ok 或失败分类码）统计分析周期及耗时。
  - 会话指标：活跃会话数 Gauge。
*/
package metrics
