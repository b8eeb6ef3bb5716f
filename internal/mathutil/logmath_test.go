package mathutil

import (
	"math"
	"testing"
)

func TestLogRatio(t *testing.T) {
	got := LogRatio(9, 10)
	want := math.Log(0.9)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogRatio(9, 10) = %f, want %f", got, want)
	}
	if got := LogRatio(3, 3); got != 0 {
		t.Errorf("LogRatio(3, 3) = %f, want 0", got)
	}
}

func TestLogRatioZero(t *testing.T) {
	tests := []struct{ num, den int }{{0, 5}, {1, 0}, {-1, 3}}
	for _, tt := range tests {
		if got := LogRatio(tt.num, tt.den); got != LogZero {
			t.Errorf("LogRatio(%d, %d) = %f, want LogZero", tt.num, tt.den, got)
		}
	}
}
