// Package progress turns a member's activity into XP and a rank.
package progress

// XP awarded per activity.
const (
	XPPerLike   = 10
	XPPerApply  = 50
	XPPerUnlock = 50
	XPPerReview = 30
)

// Activity counts the interactions that earn XP.
type Activity struct {
	Likes   int `json:"likes"`
	Applies int `json:"applies"`
	Unlocks int `json:"unlocks"`
	Reviews int `json:"reviews"`
}

// XP returns the total experience for the activity.
func (a Activity) XP() int {
	return a.Likes*XPPerLike + a.Applies*XPPerApply + a.Unlocks*XPPerUnlock + a.Reviews*XPPerReview
}

// Rank describes one level band.
type Rank struct {
	Level    int    `json:"level"`
	Name     string `json:"name"`
	NextName string `json:"next_name"`
	Icon     string `json:"icon"`
	MinXP    int    `json:"min_xp"`
	MaxXP    int    `json:"max_xp"` // upper bound used for the progress bar
}

var ranks = []Rank{
	{Level: 1, Name: "임린이", NextName: "임대장", Icon: "🐣", MinXP: 0, MaxXP: 300},
	{Level: 2, Name: "임대장", NextName: "부동산 고수", Icon: "👣", MinXP: 300, MaxXP: 1000},
	{Level: 3, Name: "부동산 고수", NextName: "마스터", Icon: "👑", MinXP: 1000, MaxXP: 3000},
}

// Ranks returns the level table in ascending order.
func Ranks() []Rank {
	out := make([]Rank, len(ranks))
	copy(out, ranks)
	return out
}

// Progress is a member's current standing.
type Progress struct {
	Activity Activity `json:"activity"`
	XP       int      `json:"xp"`
	Level    int      `json:"level"`
	Rank     string   `json:"rank"`
	NextRank string   `json:"next_rank"`
	Icon     string   `json:"icon"`
	MinXP    int      `json:"min_xp"`
	MaxXP    int      `json:"max_xp"`
	Percent  float64  `json:"percent"`
}

// RankFor returns the band containing xp.
func RankFor(xp int) Rank {
	r := ranks[0]
	for _, candidate := range ranks {
		if xp >= candidate.MinXP {
			r = candidate
		}
	}
	return r
}

// Compute returns the standing for the activity.
func Compute(a Activity) Progress {
	xp := a.XP()
	r := RankFor(xp)
	pct := float64(xp-r.MinXP) / float64(r.MaxXP-r.MinXP) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return Progress{
		Activity: a,
		XP:       xp,
		Level:    r.Level,
		Rank:     r.Name,
		NextRank: r.NextName,
		Icon:     r.Icon,
		MinXP:    r.MinXP,
		MaxXP:    r.MaxXP,
		Percent:  pct,
	}
}
