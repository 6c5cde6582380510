package model

// Tier is a named recognition level derived from a point total.
type Tier struct {
	Name      string
	MinPoints int
	Color     string // badge color classes
}

// Tiers is the canonical threshold table, highest first.
var Tiers = []Tier{
	{Name: "Campus Legend", MinPoints: 500, Color: "bg-purple-500/20 text-purple-500 ring-purple-500/30"},
	{Name: "Neural Navigator", MinPoints: 150, Color: "bg-blue-500/20 text-blue-500 ring-blue-500/30"},
	{Name: "Rising Star", MinPoints: 50, Color: "bg-emerald-500/20 text-emerald-500 ring-emerald-500/30"},
	{Name: "Novice", MinPoints: 0, Color: "bg-slate-500/20 text-slate-500 ring-slate-500/30"},
}

func TierFor(points int) Tier {
	for _, t := range Tiers {
		if points >= t.MinPoints {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// NextTier is the tier above the one points currently reach, if any.
func NextTier(points int) (Tier, bool) {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].MinPoints > points {
			return Tiers[i], true
		}
	}
	return Tier{}, false
}
