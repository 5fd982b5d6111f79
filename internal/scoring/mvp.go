package scoring

import (
	"errors"

	"github.com/pable/go-dota-party/internal/model"
)

// ErrNoNamedPlayers means every roster entry was anonymous, so no MVP can
// be picked.
var ErrNoNamedPlayers = errors.New("scoring: no named players in roster")

// Component weights for the MVP composite.
const (
	mvpWeightKDA      = 0.25
	mvpWeightCombat   = 0.25
	mvpWeightEconomic = 0.20
	mvpWeightSupport  = 0.15
	mvpWeightXP       = 0.10
)

// MVPScore is one player's team-baseline-relative composite.
type MVPScore struct {
	Entry    model.RosterEntry
	KDA      float64
	Combat   float64
	Economic float64
	Support  float64
	XP       float64
	Bonus    float64
	Penalty  float64
	Total    float64
}

// MVPResult is the match MVP selection with the full scored field.
type MVPResult struct {
	Winner MVPScore
	Scores []MVPScore // every named player, roster order
}

// teamBaseline is the set of per-team average stats the composite is
// normalized against. Only named players contribute.
type teamBaseline struct {
	kills, deaths, assists  float64
	netWorth, heroDamage    float64
	towerDamage, lastHits   float64
	gpm, xpm, healing, stuns float64
}

func baselines(roster []model.RosterEntry) map[model.Faction]teamBaseline {
	sums := map[model.Faction]*teamBaseline{}
	counts := map[model.Faction]int{}

	for _, e := range roster {
		if e.Anonymous() {
			continue
		}
		f := e.Faction()
		if sums[f] == nil {
			sums[f] = &teamBaseline{}
		}
		b := sums[f]
		b.kills += float64(e.Kills)
		b.deaths += float64(e.Deaths)
		b.assists += float64(e.Assists)
		b.netWorth += float64(e.NetWorth)
		b.heroDamage += float64(e.HeroDamage)
		b.towerDamage += float64(e.TowerDamage)
		b.lastHits += float64(e.LastHits)
		b.gpm += float64(e.GoldPerMin)
		b.xpm += float64(e.XPPerMin)
		b.healing += float64(e.HeroHealing)
		b.stuns += e.Stuns
		counts[f]++
	}

	out := map[model.Faction]teamBaseline{}
	for f, b := range sums {
		n := float64(counts[f])
		out[f] = teamBaseline{
			kills: b.kills / n, deaths: b.deaths / n, assists: b.assists / n,
			netWorth: b.netWorth / n, heroDamage: b.heroDamage / n,
			towerDamage: b.towerDamage / n, lastHits: b.lastHits / n,
			gpm: b.gpm / n, xpm: b.xpm / n, healing: b.healing / n,
			stuns: b.stuns / n,
		}
	}
	return out
}

// rel normalizes a player metric against its team baseline, flooring the
// baseline at 1 so empty teams cannot divide by zero.
func rel(value, baseline, multiplier float64) float64 {
	if baseline < 1 {
		baseline = 1
	}
	return value / baseline * multiplier
}

// MVP scores every named roster entry against its team's averages and picks
// the standout performer. Ties break to the first-seen roster entry.
func MVP(roster []model.RosterEntry) (*MVPResult, error) {
	base := baselines(roster)

	var scores []MVPScore
	for _, e := range roster {
		if e.Anonymous() {
			continue
		}
		scores = append(scores, scoreEntry(e, base[e.Faction()]))
	}
	if len(scores) == 0 {
		return nil, ErrNoNamedPlayers
	}

	winner := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Total > scores[winner].Total {
			winner = i
		}
	}
	return &MVPResult{Winner: scores[winner], Scores: scores}, nil
}

func scoreEntry(e model.RosterEntry, b teamBaseline) MVPScore {
	s := MVPScore{Entry: e}

	kda := e.KDA()
	avgKDA := b.kills + b.assists
	if b.deaths >= 1 {
		avgKDA = (b.kills + b.assists) / b.deaths
	}
	s.KDA = rel(kda, avgKDA, 100)

	participation := rel(float64(e.Kills+e.Assists), b.kills+b.assists, 50)
	damage := rel(float64(e.HeroDamage), b.heroDamage, 50)
	s.Combat = participation + damage

	s.Economic = rel(float64(e.NetWorth), b.netWorth, 40) +
		rel(float64(e.GoldPerMin), b.gpm, 30) +
		rel(float64(e.LastHits), b.lastHits, 30)

	s.Support = rel(float64(e.HeroHealing), b.healing, 40) +
		rel(e.Stuns, b.stuns, 30) +
		rel(float64(e.Assists), b.assists, 30)

	s.XP = rel(float64(e.XPPerMin), b.xpm, 100)

	// Discrete bonuses for exceptional games.
	if kda >= 5 {
		s.Bonus += 10
	}
	if float64(e.HeroDamage) >= 2*b.heroDamage && b.heroDamage > 0 {
		s.Bonus += 8
	}
	if float64(e.NetWorth) >= 1.5*b.netWorth && b.netWorth > 0 {
		s.Bonus += 6
	}
	if e.Deaths <= 1 && e.Kills >= 5 {
		s.Bonus += 7
	}

	// Discrete penalties for poor games.
	if float64(e.Deaths) > 2*b.deaths && b.deaths > 0 {
		s.Penalty += 8
	}
	if kda < 0.5 && e.Deaths > 5 {
		s.Penalty += 6
	}
	if float64(e.NetWorth) < 0.5*b.netWorth {
		s.Penalty += 5
	}

	s.Total = mvpWeightKDA*s.KDA +
		mvpWeightCombat*s.Combat +
		mvpWeightEconomic*s.Economic +
		mvpWeightSupport*s.Support +
		mvpWeightXP*s.XP +
		s.Bonus - s.Penalty
	return s
}
