/*
Package quote 管理报价草稿并生成外发消息。

# 核心类型

  - Desk     — 单个访客的草稿与联系面板状态，所有修改经由其方法完成
  - Draft    — 模型链接、报价与是否已确认
  - Composer — 纯函数式地把 Draft 渲染为展示文本、mailto 与 WhatsApp 链接

# 编码

EncodeURIComponent 与 ECMAScript 的 encodeURIComponent 逐字节一致，
生成的链接可直接交给邮件客户端或 wa.me。
*/
package quote
