/*
Package analysis 负责模型链接的 AI 分析。

Orchestrator 针对一个链接并发发起结构化文本请求（分析、风险、参数、报价）
与全息预览图请求，两者都完成后合并为一个 Result；任一失败则整体失败，
不产生部分结果。Slot 保存每个访客最近一次分析的状态，并通过代次计数
丢弃过期的完成结果。
*/
package analysis
