// Copyright (c) Quotedesk Authors.
// Licensed under the MIT License.

/*
Package types 提供 quotedesk 服务的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 analysis、quote、chat、
api 等上层模块提供统一的错误契约。

# 核心类型

  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码、Retryable、Provider 标记

# 主要能力

  - 失败分类：NETWORK / SCHEMA / UPSTREAM_QUOTA / UPSTREAM_ERROR / TIMEOUT /
    CANCELED / SUPERSEDED，每次生成失败只归入其中一种
  - 错误工具链：WrapError / AsError / IsErrorCode / IsRetryable / GetErrorCode
  - 常用错误构造：NewInvalidRequestError / NewSchemaError / NewTimeoutError
*/
package types
