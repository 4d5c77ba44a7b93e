// Package pricing holds the shop's pricing rule. The rule is rendered into
// the analysis prompt as guidance for the model, and can also be evaluated
// locally when weight and print time are known.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/types"
)

// Rule is cost-plus pricing with a floor.
type Rule struct {
	MaterialCostPerGram float64
	HourlyRate          float64
	Margin              float64
	MinimumPrice        float64
	Currency            string
	Material            string
}

// Estimate is the breakdown of one local price computation.
type Estimate struct {
	Grams          float64 `json:"grams"`
	Hours          float64 `json:"hours"`
	MaterialCost   float64 `json:"material_cost"`
	MachineCost    float64 `json:"machine_cost"`
	BaseCost       float64 `json:"base_cost"`
	Price          float64 `json:"price"`
	MinimumApplied bool    `json:"minimum_applied"`
	Formatted      string  `json:"formatted"`
}

// FromConfig builds a Rule from the pricing section.
func FromConfig(cfg config.PricingConfig) Rule {
	return Rule{
		MaterialCostPerGram: cfg.MaterialCostPerGram,
		HourlyRate:          cfg.HourlyRate,
		Margin:              cfg.Margin,
		MinimumPrice:        cfg.MinimumPrice,
		Currency:            cfg.Currency,
		Material:            cfg.Material,
	}
}

// Default returns the standard PLA rule.
func Default() Rule {
	return FromConfig(config.DefaultPricingConfig())
}

// Estimate prices a job of the given filament weight and print time.
func (r Rule) Estimate(grams, hours float64) (Estimate, error) {
	if grams < 0 || hours < 0 || math.IsNaN(grams) || math.IsNaN(hours) ||
		math.IsInf(grams, 0) || math.IsInf(hours, 0) {
		return Estimate{}, types.NewInvalidRequestError("grams and hours must be finite and non-negative")
	}

	e := Estimate{
		Grams:        grams,
		Hours:        hours,
		MaterialCost: grams * r.MaterialCostPerGram,
		MachineCost:  hours * r.HourlyRate,
	}
	e.BaseCost = e.MaterialCost + e.MachineCost
	e.Price = roundCents(e.BaseCost * r.Margin)
	if e.Price < r.MinimumPrice {
		e.Price = r.MinimumPrice
		e.MinimumApplied = true
	}
	e.Formatted = r.Format(e.Price)
	return e, nil
}

// Format renders an amount the way the model is asked to, e.g. "$5.50".
func (r Rule) Format(amount float64) string {
	return fmt.Sprintf("%s%.2f", r.Currency, amount)
}

// MarginPercent is the markup over base cost, e.g. 60 for a 1.60 margin.
func (r Rule) MarginPercent() int {
	return int(math.Round((r.Margin - 1) * 100))
}

// Instructions renders the rule as prompt text.
func (r Rule) Instructions() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROFITABLE PRICING RULES (%d%% MARGIN):\n", r.MarginPercent())
	fmt.Fprintf(&b, "- Calculate the Base Cost = (Material Weight in grams * %s/g) + (Print Time in hours * %s/hr for electricity/wear).\n",
		r.formatRate(r.MaterialCostPerGram), r.Format(r.HourlyRate))
	fmt.Fprintf(&b, "- Add a %d%% Profit Margin: Final Price = Base Cost * %.2f.\n", r.MarginPercent(), r.Margin)
	fmt.Fprintf(&b, "- Minimum Setup Fee: For very small/mini items, ensure the price is at least %s to cover printer setup/cleaning time.\n",
		r.Format(r.MinimumPrice))
	fmt.Fprintf(&b, "- Do not undervalue the work. Ensure I get at least %d%% profit.\n", r.MarginPercent())
	fmt.Fprintf(&b, "- Example: If material is %s and time is %s (Total Cost %s), Price should be %s.\n",
		r.Format(0.5), r.Format(0.5), r.Format(1), r.Format(roundCents(r.Margin)))
	fmt.Fprintf(&b, "- Example: If it's a tiny 5 minute print, charge minimum %s.", r.Format(r.MinimumPrice))
	return b.String()
}

// formatRate keeps sub-cent precision for per-gram rates.
func (r Rule) formatRate(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	if strings.HasSuffix(s, "0") {
		s = s[:len(s)-1]
	}
	return r.Currency + s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
