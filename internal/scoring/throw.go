package scoring

// Throw categories, from worst decline to late-game improvement.
const (
	ThrowMassive    = "massive throw"
	ThrowSevere     = "severe throw"
	ThrowModerate   = "moderate throw"
	ThrowMild       = "mild decline"
	ThrowConsistent = "consistent"
	ThrowClutch     = "clutch"
)

// Early/late phase fractions of the cumulative match totals. These are fixed
// heuristic constants inherited from the upstream data source; they overlap
// (they are not a disjoint partition of the match) and must not be
// "corrected" — true time-sliced data is not available.
var (
	earlyFractions = phaseFractions{
		kills: 0.4, assists: 0.4, deaths: 0.3, lastHits: 0.5,
		heroDamage: 0.3, netWorth: 0.3, gpm: 0.7, xpm: 0.7,
	}
	lateFractions = phaseFractions{
		kills: 0.6, assists: 0.6, deaths: 0.7, lastHits: 0.5,
		heroDamage: 0.7, netWorth: 1.0, gpm: 0.9, xpm: 0.8,
	}
)

type phaseFractions struct {
	kills, assists, deaths, lastHits float64
	heroDamage, netWorth, gpm, xpm   float64
}

// Phase score ladders: a KDA ladder plus net-worth, gold-rate, and
// farm-rate bonuses, together capped at 100.
var (
	phaseKDABands = []band{{3, 40}, {2, 32}, {1.5, 26}, {1, 20}, {0.5, 12}}
	phaseNWBands  = []band{{20000, 20}, {12000, 16}, {8000, 12}, {4000, 8}}
	phaseGPMBands = []band{{500, 20}, {400, 16}, {300, 12}, {200, 8}}
	phaseLHBands  = []band{{6, 20}, {4, 15}, {2, 10}}
)

// ThrowInput is the cumulative stat line the analysis slices.
type ThrowInput struct {
	Kills      int
	Deaths     int
	Assists    int
	LastHits   int
	HeroDamage int
	NetWorth   int
	GoldPerMin int
	XPPerMin   int
	Duration   int // seconds
}

// ThrowResult quantifies an early-to-late performance decline.
type ThrowResult struct {
	EarlyScore float64
	LateScore  float64
	Percent    float64 // clamped at 0; improvement reports 0
	Category   string
	IsThrow    bool
}

// Throw splits the cumulative stats into synthetic early and late slices,
// scores each with the same threshold-ladder style as the performance
// score, and reports the percentage drop.
func Throw(in ThrowInput) ThrowResult {
	mins := float64(in.Duration) / 60
	if mins < 1 {
		mins = 1
	}

	early := phaseScore(in, earlyFractions, mins)
	late := phaseScore(in, lateFractions, mins)

	var raw float64
	if early > 0 {
		raw = (early - late) / early * 100
	}

	percent := raw
	if percent < 0 {
		percent = 0
	}

	return ThrowResult{
		EarlyScore: early,
		LateScore:  late,
		Percent:    percent,
		Category:   throwCategory(raw),
		IsThrow:    percent >= 20,
	}
}

func phaseScore(in ThrowInput, f phaseFractions, mins float64) float64 {
	kills := float64(in.Kills) * f.kills
	assists := float64(in.Assists) * f.assists
	deaths := float64(in.Deaths) * f.deaths
	if deaths < 1 {
		deaths = 1
	}
	kda := (kills + assists) / deaths

	score := ladder(kda, phaseKDABands, 6)
	score += ladder(float64(in.NetWorth)*f.netWorth, phaseNWBands, 4)
	score += ladder(float64(in.GoldPerMin)*f.gpm, phaseGPMBands, 4)
	score += ladder(float64(in.LastHits)*f.lastHits/mins, phaseLHBands, 5)
	return score
}

func throwCategory(raw float64) string {
	switch {
	case raw >= 50:
		return ThrowMassive
	case raw >= 30:
		return ThrowSevere
	case raw >= 20:
		return ThrowModerate
	case raw >= 10:
		return ThrowMild
	case raw >= -10:
		return ThrowConsistent
	default:
		return ThrowClutch
	}
}

// Categorize rebuilds a ThrowResult from already-computed phase scores, for
// callers re-rendering stored snapshots.
func Categorize(earlyScore, lateScore float64) ThrowResult {
	var raw float64
	if earlyScore > 0 {
		raw = (earlyScore - lateScore) / earlyScore * 100
	}
	percent := raw
	if percent < 0 {
		percent = 0
	}
	return ThrowResult{
		EarlyScore: earlyScore,
		LateScore:  lateScore,
		Percent:    percent,
		Category:   throwCategory(raw),
		IsThrow:    percent >= 20,
	}
}
