package ingest

import "testing"

func TestIntervalForDuration(t *testing.T) {
	cases := []struct {
		duration float64
		want     int
	}{
		{95, 6},
		{91, 6},
		{90, 4},
		{75, 4},
		{61, 4},
		{60, 3},
		{50, 3},
		{41, 3},
		{40, 2},
		{35, 2},
		{31, 2},
		{30, 1},
		{10, 1},
		{1, 1},
	}
	for _, tc := range cases {
		if got := IntervalForDuration(tc.duration); got != tc.want {
			t.Errorf("IntervalForDuration(%v) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestTargetFrameCount(t *testing.T) {
	cases := []struct {
		duration float64
		interval int
		want     int
	}{
		{95, 6, 15},
		{75, 4, 18},
		{50, 3, 16},
		{35, 2, 17},
		{10, 1, 10},
		{300, 6, 30},  // capped
		{1000, 6, 30}, // capped
		{0.5, 1, 1},   // never below one frame
	}
	for _, tc := range cases {
		if got := TargetFrameCount(tc.duration, tc.interval); got != tc.want {
			t.Errorf("TargetFrameCount(%v, %d) = %d, want %d", tc.duration, tc.interval, got, tc.want)
		}
	}
}

func TestTargetFrameCountNeverExceedsCap(t *testing.T) {
	for d := 1.0; d < 2000; d += 13.7 {
		interval := IntervalForDuration(d)
		if got := TargetFrameCount(d, interval); got > maxFramesPerVideo {
			t.Fatalf("duration %v produced %d frames, cap is %d", d, got, maxFramesPerVideo)
		}
	}
}
