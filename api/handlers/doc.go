// Copyright (c) Quotedesk Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 quotedesk HTTP API 的请求处理器实现。

# 概述

每个访客对应一个会话；除定价与健康检查外，所有端点都以路径参数
{id} 定位会话，再调用会话内的分析槽、报价面板或聊天记录。
所有 Handler 均遵循标准 net/http 接口，通过 Swagger 注解生成 API 文档。

# 核心类型

  - SessionHandler   — 创建、查询、删除会话
  - AnalysisHandler  — 运行分析、查询分析槽快照
  - QuoteHandler     — 报价面板操作与分析转报价（proceed）
  - PricingHandler   — 本地价格估算
  - ChatHandler      — 支持聊天（SSE 与 WebSocket）与聊天记录
  - HealthHandler    — 服务健康检查（/health, /healthz, /ready）
  - Response         — 统一 JSON 响应结构（success + data + error + timestamp + request_id）
  - ResponseWriter   — 包装 http.ResponseWriter，捕获状态码与字节数，透传 Flush/Hijack

# 主要能力

  - 统一响应格式：WriteSuccess / WriteCreated / WriteError / WriteJSON
  - 请求验证：DecodeJSONBody（1 MB 限制 + 严格模式）
  - ErrorCode → HTTP 状态码映射：SUPERSEDED/CONFLICT→409、UPSTREAM_QUOTA→429、
    CANCELED→499、TIMEOUT→504、其余上游失败→502
  - SSE：首个增量前失败返回 JSON 错误，之后失败发送 error 事件
*/
package handlers
