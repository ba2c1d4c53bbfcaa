package contracts

// Component identifies one of the four score groups
type Component string

const (
	ComponentValuation     Component = "valuation"
	ComponentProfitability Component = "profitability"
	ComponentGrowth        Component = "growth"
	ComponentQuality       Component = "quality"
)

// Components lists the score groups in aggregation order
var Components = []Component{
	ComponentValuation,
	ComponentProfitability,
	ComponentGrowth,
	ComponentQuality,
}

// ComponentScore is the output of one component scorer (S2)
// ⭐ SSOT: S2 → S3 컴포넌트 점수 전달
type ComponentScore struct {
	Component  Component          `json:"component"`
	Score      float64            `json:"score"`      // 0.0 ~ 1.0
	Normalized float64            `json:"normalized"` // 0 ~ 100
	Applicable int                `json:"applicable"` // number of metrics averaged
	NoData     bool               `json:"no_data"`
	Metrics    map[string]float64 `json:"metrics,omitempty"` // per-metric score
}

// ComponentSet holds all four component scores of a record
type ComponentSet struct {
	Valuation     ComponentScore `json:"valuation"`
	Profitability ComponentScore `json:"profitability"`
	Growth        ComponentScore `json:"growth"`
	Quality       ComponentScore `json:"quality"`
}

// Get returns the score for a component
func (c ComponentSet) Get(comp Component) ComponentScore {
	switch comp {
	case ComponentValuation:
		return c.Valuation
	case ComponentProfitability:
		return c.Profitability
	case ComponentGrowth:
		return c.Growth
	case ComponentQuality:
		return c.Quality
	default:
		return ComponentScore{Component: comp, NoData: true}
	}
}

// Set stores a score under its component
func (c *ComponentSet) Set(score ComponentScore) {
	switch score.Component {
	case ComponentValuation:
		c.Valuation = score
	case ComponentProfitability:
		c.Profitability = score
	case ComponentGrowth:
		c.Growth = score
	case ComponentQuality:
		c.Quality = score
	}
}

// AllNoData reports whether none of the four components had an applicable metric
func (c ComponentSet) AllNoData() bool {
	return c.Valuation.NoData && c.Profitability.NoData && c.Growth.NoData && c.Quality.NoData
}
