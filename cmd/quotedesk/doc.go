// Copyright (c) Quotedesk Authors.
// Licensed under the MIT License.

/*
Package main 提供 quotedesk 服务端程序入口。

# 概述

cmd/quotedesk 是报价服务的可执行入口，提供 HTTP API、健康检查与
版本查询子命令。程序支持 YAML 配置文件与 QUOTEDESK_ 环境变量覆盖、
结构化日志（zap）、Prometheus 指标与 OpenTelemetry 追踪。

# 核心类型

  - Server      — 主服务器，组装领域组件并管理 HTTP、Metrics 双端口
  - Middleware  — HTTP 中间件函数签名 func(http.Handler) http.Handler

# 主要能力

  - 子命令：serve（启动服务）、version、health
  - 中间件链：Recovery、RequestID、OTelTracing、SecurityHeaders、
    RequestLogger、CORS、MetricsMiddleware
  - 未配置 Gemini Key 时仍可启动：报价与定价可用，/readyz 报告不就绪
  - Metrics 服务器：独立端口暴露 /metrics（Prometheus）
  - 优雅关闭：信号监听 → 关闭 HTTP → 关闭 Metrics → 刷新遥测
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
