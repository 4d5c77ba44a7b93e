// Package config 提供 quotedesk 的配置管理功能。
//
// 配置来源依次为默认值、YAML 文件与 QUOTEDESK_ 前缀的环境变量，
// 加载后可通过 Validate 做整体校验。
package config
