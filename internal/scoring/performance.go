// Package scoring derives performance, MVP, and throw scores from fetched
// roster data. Everything here is a pure function: missing or zero input
// fields score as zero, there are no failure modes.
package scoring

// band is one rung of a descending threshold ladder.
type band struct {
	min float64
	pts float64
}

// ladder returns the points of the first rung the value reaches, or floor.
func ladder(value float64, bands []band, floor float64) float64 {
	for _, b := range bands {
		if value >= b.min {
			return b.pts
		}
	}
	return floor
}

// Per-component ladders for the 0-100 performance score. Weights:
// KDA 30, GPM 20, XPM 15, last hits 10, hero damage 15, tower damage 5,
// healing 5.
var (
	kdaBands = []band{{3, 30}, {2, 25}, {1.5, 20}, {1, 15}, {0.5, 10}}
	gpmBands = []band{{600, 20}, {500, 17}, {400, 14}, {300, 10}, {200, 7}}
	xpmBands = []band{{600, 15}, {500, 13}, {400, 10}, {300, 8}, {200, 5}}
	lhBands  = []band{{8, 10}, {6, 8}, {4, 6}, {2, 4}, {1, 2}}
	hdBands  = []band{{600, 15}, {450, 12}, {300, 9}, {150, 6}, {50, 4}}
	tdBands  = []band{{100, 5}, {50, 4}, {20, 3}, {5, 2}}
	healBands = []band{{100, 5}, {50, 4}, {20, 3}, {5, 2}}
)

// Component is one labeled sub-score of a performance score.
type Component struct {
	Label  string
	Points float64
	Max    float64
}

// PerformanceScore is a bucketed 0-100 score with its breakdown.
type PerformanceScore struct {
	Total      float64
	Category   string
	Components []Component
}

// PerformanceInput is the per-match stat line the score is computed from.
type PerformanceInput struct {
	Kills       int
	Deaths      int
	Assists     int
	GoldPerMin  int
	XPPerMin    int
	LastHits    int
	HeroDamage  int
	TowerDamage int
	HeroHealing int
	Duration    int // seconds
}

// KDA returns (kills+assists)/deaths with deaths floored at 1.
func (in PerformanceInput) KDA() float64 {
	deaths := in.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(in.Kills+in.Assists) / float64(deaths)
}

// minutes floors at 1 so short or missing durations cannot blow up rates.
func (in PerformanceInput) minutes() float64 {
	if in.Duration < 60 {
		return 1
	}
	return float64(in.Duration) / 60
}

// Performance computes the weighted 0-100 score for one player's match.
func Performance(in PerformanceInput) PerformanceScore {
	mins := in.minutes()

	components := []Component{
		{"KDA", ladder(in.KDA(), kdaBands, 5), 30},
		{"GPM", ladder(float64(in.GoldPerMin), gpmBands, 4), 20},
		{"XPM", ladder(float64(in.XPPerMin), xpmBands, 3), 15},
		{"Last hits/min", ladder(float64(in.LastHits)/mins, lhBands, 1), 10},
		{"Hero damage/min", ladder(float64(in.HeroDamage)/mins, hdBands, 2), 15},
		{"Tower damage/min", ladder(float64(in.TowerDamage)/mins, tdBands, 1), 5},
		{"Healing/min", ladder(float64(in.HeroHealing)/mins, healBands, 1), 5},
	}

	var total float64
	for _, c := range components {
		total += c.Points
	}

	return PerformanceScore{
		Total:      total,
		Category:   performanceCategory(total),
		Components: components,
	}
}

func performanceCategory(total float64) string {
	switch {
	case total >= 80:
		return "Excellent"
	case total >= 65:
		return "Very Good"
	case total >= 50:
		return "Good"
	case total >= 35:
		return "Average"
	case total >= 20:
		return "Poor"
	default:
		return "Very Poor"
	}
}
