// Copyright 2026 Quotedesk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 quotedesk 测试的共享工具和辅助函数。

# 概述

testutil 包为各包的单元测试提供统一的辅助能力，避免重复实现
相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 断言工具: AssertJSONEqual / AssertEventuallyTrue
  - 等待工具: WaitFor / WaitForChannel
  - 数据工具: MustJSON / MustParseJSON

# 子包

  - testutil/mocks: MockGenerator，同时模拟结构化文本、图片与流式对话，
    支持 Builder 模式、错误注入与调用记录
  - testutil/fixtures: 分析响应、内联图片与示例链接等测试数据

# 使用示例

	ctx := testutil.TestContext(t)
	gen := mocks.NewMockGenerator().WithText(fixtures.VaseReport())
	res, err := orchestrator.Analyze(ctx, fixtures.VaseURL)
*/
package testutil
