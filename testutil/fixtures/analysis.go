// 分析与报价相关的测试夹具。
package fixtures

import (
	"encoding/json"
)

// ReportJSON 构造文本模型的四字段 JSON 响应
func ReportJSON(analysis, risks, settings, fairPrice string) string {
	b, _ := json.Marshal(map[string]string{
		"analysis":  analysis,
		"risks":     risks,
		"settings":  settings,
		"fairPrice": fairPrice,
	})
	return string(b)
}

// VaseReport 返回示例花瓶的分析响应
func VaseReport() string {
	return ReportJSON(
		"Thin-walled vase, prints in vase mode.",
		"Layer separation on the rim.",
		"0.2mm layers, 0% infill, spiralize outer contour.",
		"$7.00",
	)
}

// PNGBytes 是 base64 "QUJD" 对应的原始字节
var PNGBytes = []byte("ABC")

// PNGDataURI 是 PNGBytes 渲染后的 data URI
const PNGDataURI = "data:image/png;base64,QUJD"

// VaseURL 是常用的示例模型链接
const VaseURL = "https://example.com/vase"
