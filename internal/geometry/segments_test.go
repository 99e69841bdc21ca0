package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGenerateVerticalSegmentsProperties(t *testing.T) {
	for _, ratio := range []float64{0, 0.01, 0.1, StaticFadeRatio, AnimatedFadeRatio, 0.4, 0.499} {
		segments := GenerateVerticalSegments(ratio)

		sum := 0.0
		for _, s := range segments {
			sum += s.HeightRatio
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("fadeRatio=%v: 高度和 = %v, want 1", ratio, sum)
		}

		last := len(segments) - 1
		for i := range segments {
			if segments[i] != segments[last-i] {
				t.Errorf("fadeRatio=%v: 段 %d 与 %d 不对称", ratio, i, last-i)
			}
		}

		if mid := segments[last/2]; mid.Opacity != 1 {
			t.Errorf("fadeRatio=%v: 中段透明度 = %v, want 1", ratio, mid.Opacity)
		}
	}
}

func TestGenerateVerticalSegmentsValues(t *testing.T) {
	want := []SegmentDescriptor{
		{0.05, 0.04}, {0.05, 0.16}, {0.05, 0.36}, {0.05, 0.64}, {0.05, 1},
		{0.5, 1},
		{0.05, 1}, {0.05, 0.64}, {0.05, 0.36}, {0.05, 0.16}, {0.05, 0.04},
	}
	got := GenerateVerticalSegments(AnimatedFadeRatio)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("GenerateVerticalSegments(0.25) mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateVerticalSegmentsDegenerate(t *testing.T) {
	tests := []struct {
		name      string
		ratio     float64
		wantCount int
	}{
		{"零渐隐只有实心段", 0, 1},
		{"负数按 0 处理", -0.2, 1},
		{"NaN 按 0 处理", math.NaN(), 1},
		{"超过上限被截断", 0.8, 2*FadeSteps + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := GenerateVerticalSegments(tt.ratio)
			if len(segments) != tt.wantCount {
				t.Fatalf("len = %d, want %d", len(segments), tt.wantCount)
			}
			for _, s := range segments {
				if s.HeightRatio < 0 {
					t.Errorf("出现负高度: %+v", s)
				}
			}
		})
	}
}

func TestFadeRatioFor(t *testing.T) {
	tests := []struct {
		mode Mode
		want float64
	}{
		{ModeNormal, StaticFadeRatio},
		{ModeExpand, AnimatedFadeRatio},
		{ModeShrink, AnimatedFadeRatio},
	}
	for _, tt := range tests {
		if got := FadeRatioFor(tt.mode); got != tt.want {
			t.Errorf("FadeRatioFor(%s) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
