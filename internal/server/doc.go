// Copyright (c) Quotedesk Authors.
// Use of this source code is governed by the MIT license found in the LICENSE file.

/*
包 server 提供 HTTP 服务器生命周期管理，支持非阻塞启动、
优雅关闭与系统信号监听。

# 概述

Manager 封装 net/http.Server。quotedesk 进程同时运行两个实例：
业务 API 与 Prometheus 指标端点，二者以 name 区分日志。

# 主要能力

  - 非阻塞启动：Start 在后台 goroutine 中运行服务，ListenAddr
    返回实际绑定地址（便于 ":0" 测试）。
  - 优雅关闭：Shutdown 先在超时内排空普通请求，再取消请求基础
    上下文，使 WebSocket 等已劫持连接的处理函数退出。
  - 信号监听：WaitForShutdown 监听 SIGINT/SIGTERM 或 ctx 结束。
  - 错误传播：Errors() 返回异步错误通道。
*/
package server
