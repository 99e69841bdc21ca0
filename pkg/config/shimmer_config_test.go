package config

import (
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/decker502/shimmer/internal/geometry"
	"github.com/decker502/shimmer/pkg/playback"
)

func TestLoadShimmerConfigDefaults(t *testing.T) {
	cfg, err := LoadShimmerConfig(nil)
	if err != nil {
		t.Fatalf("LoadShimmerConfig(nil) error: %v", err)
	}
	if diff := cmp.Diff(DefaultShimmerConfig(), *cfg); diff != "" {
		t.Errorf("空配置应等于默认值 (-want +got):\n%s", diff)
	}
	if !cfg.Iterations.IsInfinite() || !cfg.Active || !cfg.RespectReducedMotion {
		t.Errorf("默认值错误: %+v", cfg)
	}
}

func TestLoadShimmerConfigOverrides(t *testing.T) {
	data := []byte(`
duration: 1000
delay: 0
angle: -30
mode: expand
position: top
direction: right-to-left
iterations: 3
easing: linear
testID: card-shimmer
accessible: true
`)
	cfg, err := LoadShimmerConfig(data)
	if err != nil {
		t.Fatalf("LoadShimmerConfig error: %v", err)
	}

	want := DefaultShimmerConfig()
	want.Duration = 1000
	want.Delay = 0
	want.Angle = -30
	want.Mode = geometry.ModeExpand
	want.Position = geometry.PositionTop
	want.Direction = geometry.RightToLeft
	want.Iterations = 3
	want.Easing = "linear"
	want.TestID = "card-shimmer"
	want.Accessible = true

	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("覆盖字段不正确 (-want +got):\n%s", diff)
	}
}

func TestLoadShimmerConfigSyntaxError(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"YAML 语法错误", "duration: [1, 2"},
		{"迭代次数不是数字", "iterations: forever"},
		{"迭代次数不是标量", "iterations: [1]"},
		{"时长类型错误", "duration: slow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadShimmerConfig([]byte(tt.data)); err == nil {
				t.Errorf("期望返回错误")
			}
		})
	}
}

func TestShimmerConfigNormalize(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ShimmerConfig)
		check  func(t *testing.T, c ShimmerConfig)
	}{
		{
			"负时长改为 0",
			func(c *ShimmerConfig) { c.Duration, c.Delay, c.InitialDelay = -5, -1, -100 },
			func(t *testing.T, c ShimmerConfig) {
				if c.Duration != 0 || c.Delay != 0 || c.InitialDelay != 0 {
					t.Errorf("got %d/%d/%d", c.Duration, c.Delay, c.InitialDelay)
				}
			},
		},
		{
			"迭代次数 0 改为 1",
			func(c *ShimmerConfig) { c.Iterations = 0 },
			func(t *testing.T, c ShimmerConfig) {
				if c.Iterations != 1 {
					t.Errorf("Iterations = %d, want 1", c.Iterations)
				}
			},
		},
		{
			"迭代次数小于 -1 改为 1",
			func(c *ShimmerConfig) { c.Iterations = -4 },
			func(t *testing.T, c ShimmerConfig) {
				if c.Iterations != 1 {
					t.Errorf("Iterations = %d, want 1", c.Iterations)
				}
			},
		},
		{
			"非法宽度使用默认值",
			func(c *ShimmerConfig) { c.ShimmerWidth = 0 },
			func(t *testing.T, c ShimmerConfig) {
				if c.ShimmerWidth != geometry.DefaultShimmerWidth {
					t.Errorf("ShimmerWidth = %v", c.ShimmerWidth)
				}
			},
		},
		{
			"角度截断到 ±89",
			func(c *ShimmerConfig) { c.Angle = -120 },
			func(t *testing.T, c ShimmerConfig) {
				if c.Angle != -geometry.MaxAngle {
					t.Errorf("Angle = %v, want %v", c.Angle, -geometry.MaxAngle)
				}
			},
		},
		{
			"透明度截断",
			func(c *ShimmerConfig) { c.Opacity = 3 },
			func(t *testing.T, c ShimmerConfig) {
				if c.Opacity != 1 {
					t.Errorf("Opacity = %v, want 1", c.Opacity)
				}
			},
		},
		{
			"NaN 透明度使用默认值",
			func(c *ShimmerConfig) { c.Opacity = math.NaN() },
			func(t *testing.T, c ShimmerConfig) {
				if c.Opacity != DefaultOpacity {
					t.Errorf("Opacity = %v", c.Opacity)
				}
			},
		},
		{
			"未知枚举回退默认值",
			func(c *ShimmerConfig) {
				c.Mode, c.Position, c.Direction = "wave", "middle", "up"
			},
			func(t *testing.T, c ShimmerConfig) {
				if c.Mode != geometry.ModeNormal || c.Position != geometry.PositionCenter || c.Direction != geometry.LeftToRight {
					t.Errorf("got %s/%s/%s", c.Mode, c.Position, c.Direction)
				}
			},
		},
		{
			"未知缓动回退默认值",
			func(c *ShimmerConfig) { c.Easing = "bounce" },
			func(t *testing.T, c ShimmerConfig) {
				if c.Easing != DefaultEasing {
					t.Errorf("Easing = %q", c.Easing)
				}
			},
		},
		{
			"无法解析的颜色回退默认值",
			func(c *ShimmerConfig) { c.Color = "sparkly" },
			func(t *testing.T, c ShimmerConfig) {
				if c.Color != DefaultColor {
					t.Errorf("Color = %q", c.Color)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultShimmerConfig()
			tt.modify(&c)
			c.Normalize()
			tt.check(t, c)
		})
	}
}

func TestIterationsYAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(map[string]Iterations{"a": IterationsInfinite, "b": 3})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "a: infinite") || !strings.Contains(text, "b: 3") {
		t.Errorf("Marshal 输出 = %q", text)
	}

	var parsed map[string]Iterations
	if err := yaml.Unmarshal([]byte("a: Infinite\nb: 3\n"), &parsed); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if parsed["a"] != IterationsInfinite || parsed["b"] != 3 {
		t.Errorf("Unmarshal = %v", parsed)
	}
}

func TestShimmerConfigPlaybackOptions(t *testing.T) {
	c := DefaultShimmerConfig()
	c.Duration = 1200
	c.Delay = 300
	c.InitialDelay = 150
	c.Iterations = 2
	c.Easing = "linear"

	opts := c.PlaybackOptions()
	if opts.Duration != 1200*time.Millisecond || opts.Delay != 300*time.Millisecond || opts.InitialDelay != 150*time.Millisecond {
		t.Errorf("时间参数转换错误: %+v", opts)
	}
	if opts.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", opts.Iterations)
	}
	if opts.Easing == nil || opts.Easing(0.25) != 0.25 {
		t.Error("应使用线性缓动")
	}

	if got := DefaultShimmerConfig().PlaybackOptions().Iterations; got != playback.Infinite {
		t.Errorf("默认迭代次数 = %d, want Infinite", got)
	}
}

func TestShimmerConfigGeometryKey(t *testing.T) {
	c := DefaultShimmerConfig()
	c.Mode = geometry.ModeShrink
	key := c.GeometryKey(320, 48)
	want := geometry.Key{
		Width:        320,
		Height:       48,
		Angle:        geometry.DefaultAngle,
		ShimmerWidth: geometry.DefaultShimmerWidth,
		Mode:         geometry.ModeShrink,
		Position:     geometry.PositionCenter,
		Direction:    geometry.LeftToRight,
	}
	if key != want {
		t.Errorf("GeometryKey = %+v, want %+v", key, want)
	}
}

func TestShimmerConfigPeakColor(t *testing.T) {
	c := DefaultShimmerConfig()
	if got, want := c.PeakColor(), (color.NRGBA{255, 255, 255, 204}); got != want {
		t.Errorf("PeakColor = %v, want %v", got, want)
	}

	c.Opacity = 0.5
	if got := c.PeakColor().A; got != 102 {
		t.Errorf("opacity=0.5 时 alpha = %d, want 102", got)
	}
	if got := c.PeakAlpha(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("PeakAlpha = %v, want 0.4", got)
	}
}
