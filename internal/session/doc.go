// Package session 提供基于 go-cache 的内存会话注册表。
//
// 每个会话持有一个访客的报价草稿、分析结果槽与客服对话，进程退出即丢失，
// 闲置超过 TTL 后自动过期，每次访问会刷新过期时间。
package session
