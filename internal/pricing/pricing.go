package pricing

import "github.com/steadfast/idlerest/internal/geometry"

// OverheadPercent is the fixed overhead applied to every base cost.
const OverheadPercent = 10.0

// Profit margin bounds accepted by callers; Calculate itself does not check them.
const (
	MinProfitPercent = 15
	MaxProfitPercent = 20
)

// IdlerType is the duty an idler is built for.
type IdlerType string

const (
	Carrying IdlerType = "Carrying"
	Return   IdlerType = "Return"
	Impact   IdlerType = "Impact"
)

// IdlerTypes lists the idler types in display order.
func IdlerTypes() []IdlerType {
	return []IdlerType{Carrying, Return, Impact}
}

// RoundingMode selects where monetary values are rounded to 2 decimals.
type RoundingMode int

const (
	// RoundOutputs keeps full precision through base, overhead and profit
	// and rounds only the reported values. Historical estimates were
	// produced this way.
	RoundOutputs RoundingMode = iota
	// RoundEachStage rounds every component and stage before it feeds the
	// next one.
	RoundEachStage
)

func (m RoundingMode) String() string {
	if m == RoundEachStage {
		return "each_stage"
	}
	return "outputs"
}

// ParseRoundingMode maps a config value to a RoundingMode. Unknown values
// fall back to RoundOutputs.
func ParseRoundingMode(s string) RoundingMode {
	switch s {
	case "each_stage", "each-stage", "stage":
		return RoundEachStage
	default:
		return RoundOutputs
	}
}

// BoughtOut holds per-piece prices of purchased parts. Each idler has two
// ends, so every part is counted twice.
type BoughtOut struct {
	Bearing   float64
	Cup       float64
	DustCover float64
	Seal      float64
	Circlip   float64
}

// Total is the bought-out cost of one idler.
func (b BoughtOut) Total() float64 {
	return 2 * (b.Bearing + b.Cup + b.DustCover + b.Seal + b.Circlip)
}

// Conversion holds processing costs. Each estimator variant fills its own
// subset; the rest stay zero.
type Conversion struct {
	Machining     float64
	Painting      float64
	Testing       float64
	Welding       float64
	Handling      float64
	PipeMachining float64
	RodMachining  float64
	RodMilling    float64
	Assembly      float64
}

// Total sums every conversion field.
func (c Conversion) Total() float64 {
	return c.Machining + c.Painting + c.Testing + c.Welding + c.Handling +
		c.PipeMachining + c.RodMachining + c.RodMilling + c.Assembly
}

// CostComponents are the named contributions to an idler's base cost.
type CostComponents struct {
	PipeCost         float64
	ShaftCost        float64
	BoughtOut        BoughtOut
	RubberRingCost   float64
	RubberFixingCost float64
	Conversion       Conversion
}

// Breakdown contains every component and stage of the rollup.
type Breakdown struct {
	PipeCost         float64
	ShaftCost        float64
	BoughtOutCost    float64
	RubberRingCost   float64
	RubberFixingCost float64
	ConversionCost   float64
	BaseCost         float64
	Overhead         float64
	ProfitPercent    float64
	Profit           float64
}

// Totals contains roll-up values from the pricing calculation.
type Totals struct {
	Total float64
}

// Result groups the full pricing output, including detailed breakdown and totals.
type Result struct {
	Breakdown Breakdown
	Totals    Totals
}

// Calculate rolls components up into base, overhead, profit and final cost.
// Rubber costs only count for Impact idlers. Profit is taken on base plus
// overhead.
func Calculate(c CostComponents, idlerType IdlerType, profitPercent float64, mode RoundingMode) Result {
	round := geometry.Round2
	stage := func(v float64) float64 { return v }
	if mode == RoundEachStage {
		stage = round
	}

	pipeCost := stage(c.PipeCost)
	shaftCost := stage(c.ShaftCost)
	boughtOut := stage(c.BoughtOut.Total())
	conversion := stage(c.Conversion.Total())

	rubberRing, rubberFixing := 0.0, 0.0
	if idlerType == Impact {
		rubberRing = stage(c.RubberRingCost)
		rubberFixing = stage(c.RubberFixingCost)
	}

	base := stage(pipeCost + shaftCost + boughtOut + rubberRing + rubberFixing + conversion)
	overhead := stage(base * (OverheadPercent / 100.0))
	profit := stage((base + overhead) * (profitPercent / 100.0))
	total := base + overhead + profit

	return Result{
		Breakdown: Breakdown{
			PipeCost:         round(pipeCost),
			ShaftCost:        round(shaftCost),
			BoughtOutCost:    round(boughtOut),
			RubberRingCost:   round(rubberRing),
			RubberFixingCost: round(rubberFixing),
			ConversionCost:   round(conversion),
			BaseCost:         round(base),
			Overhead:         round(overhead),
			ProfitPercent:    profitPercent,
			Profit:           round(profit),
		},
		Totals: Totals{Total: round(total)},
	}
}
