// Package tlsutil 构建访问模型 API 的出站 HTTP 客户端：
// TLS 1.2+、仅 AEAD 密码套件、遵循代理环境变量，整体超时交由调用方 context 控制。
package tlsutil
