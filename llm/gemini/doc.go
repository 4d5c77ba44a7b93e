// Copyright (c) Quotedesk Authors.
// Licensed under the MIT License.

/*
Package gemini 基于 google.golang.org/genai 封装 Gemini API 调用。

# 概述

本包为分析与客服模块提供三类请求：受 JSON Schema 约束的结构化文本、
内联图片生成以及流式对话。所有失败统一映射为 types.Error，
并按 NETWORK / UPSTREAM_QUOTA / UPSTREAM_ERROR / TIMEOUT 等分类。

# 核心类型

  - Client            — SDK 封装，附带 OpenTelemetry Span 与 Observer 回调
  - StructuredRequest — 结构化文本请求（全部字段为字符串）
  - ImageRequest      — 图片请求，InlineImage 可渲染为 data URI
  - ChatRequest       — 流式对话请求
*/
package gemini
