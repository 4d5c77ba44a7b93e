package analysis

import (
	"fmt"
	"strings"

	"github.com/mak3d/quotedesk/pricing"
)

// FallbackName is used when a reference has no usable final path segment.
const FallbackName = "Object"

// Report field names requested from the text model.
const (
	FieldAnalysis  = "analysis"
	FieldRisks     = "risks"
	FieldSettings  = "settings"
	FieldFairPrice = "fairPrice"
)

// ReportFields lists the JSON string fields of the text response, in order.
var ReportFields = []string{FieldAnalysis, FieldRisks, FieldSettings, FieldFairPrice}

// DisplayName derives a human-readable name from a reference: the text after
// the last '/', with '-' turned into spaces.
func DisplayName(reference string) string {
	name := reference
	if i := strings.LastIndexByte(reference, '/'); i >= 0 {
		name = reference[i+1:]
	}
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" {
		return FallbackName
	}
	return name
}

// TextPrompt asks for the four-field print report of reference.
func TextPrompt(reference string, rule pricing.Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the 3D model object from this URL context: %s.\n", reference)
	fmt.Fprintf(&b, "Assume the material is standard %s filament.\n", rule.Material)
	b.WriteString("Provide:\n")
	b.WriteString("1. A short analysis summary.\n")
	b.WriteString("2. Potential print risks.\n")
	b.WriteString("3. Recommended settings.\n")
	fmt.Fprintf(&b, "4. A SINGLE price string (e.g., %q) for this print job.\n\n", rule.Format(5.5))
	b.WriteString(rule.Instructions())
	return b.String()
}

// ImagePrompt asks for the hologram-style preview of name.
func ImagePrompt(name string) string {
	return "Futuristic 3D hologram wireframe render of " + name +
		", glowing cyan and safety orange neon lines, hovering in void, black background, " +
		"high-tech schematics style, volumetric lighting, 8k resolution."
}
