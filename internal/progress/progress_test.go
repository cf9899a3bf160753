package progress

import "testing"

func TestXP(t *testing.T) {
	a := Activity{Likes: 3, Applies: 2, Unlocks: 1, Reviews: 2}
	if got, want := a.XP(), 3*10+3*50+2*30; got != want {
		t.Fatalf("XP() = %d, want %d", got, want)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		a       Activity
		level   int
		rank    string
		percent float64
	}{
		{"new member", Activity{}, 1, "임린이", 0},
		{"halfway level one", Activity{Likes: 15}, 1, "임린이", 50},
		{"exactly level two", Activity{Applies: 6}, 2, "임대장", 0},
		{"level two", Activity{Applies: 13}, 2, "임대장", (650.0 - 300) / 700 * 100},
		{"level three", Activity{Applies: 20}, 3, "부동산 고수", 0},
		{"past the bar", Activity{Applies: 100}, 3, "부동산 고수", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compute(tt.a)
			if p.Level != tt.level || p.Rank != tt.rank {
				t.Fatalf("got level %d %q, want %d %q", p.Level, p.Rank, tt.level, tt.rank)
			}
			if diff := p.Percent - tt.percent; diff > 0.0001 || diff < -0.0001 {
				t.Fatalf("percent = %v, want %v", p.Percent, tt.percent)
			}
		})
	}
}

func TestRankForBoundaries(t *testing.T) {
	if RankFor(299).Level != 1 || RankFor(300).Level != 2 || RankFor(999).Level != 2 || RankFor(1000).Level != 3 {
		t.Fatal("unexpected level boundaries")
	}
	if RankFor(1000).NextName != "마스터" {
		t.Fatalf("unexpected next rank %q", RankFor(1000).NextName)
	}
}
