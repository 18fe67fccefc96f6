package xp

import (
	"testing"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 0},
		{50, 0},
		{99, 0},
		{100, 1},
		{150, 1},
		{399, 1},
		{400, 2},
		{899, 2},
		{900, 3},
		{2500, 5},
		{10000, 10},
		{40000, 20},
	}

	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.level)
		}
	}
}

func TestLevelForXP_NegativeClampsToZero(t *testing.T) {
	if got := LevelForXP(-10); got != 0 {
		t.Errorf("LevelForXP(-10) = %d, want 0", got)
	}
}

func TestXPForLevel_InverseOfLevelForXP(t *testing.T) {
	for level := 0; level <= 25; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)=%d) = %d, want %d", level, threshold, got, level)
		}
		if level > 0 {
			if got := LevelForXP(threshold - 1); got != level-1 {
				t.Errorf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
			}
		}
	}
}
