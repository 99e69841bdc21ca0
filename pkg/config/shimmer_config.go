package config

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/shimmer/internal/geometry"
	"github.com/decker502/shimmer/pkg/playback"
	"github.com/decker502/shimmer/pkg/utils"
)

// 微光配置默认值
const (
	DefaultDuration     = 1500 // 毫秒
	DefaultDelay        = 400  // 毫秒
	DefaultInitialDelay = 0    // 毫秒
	DefaultColor        = "rgba(255,255,255,0.8)"
	DefaultOpacity      = 1.0
	DefaultEasing       = "ease-in-out-sine"
)

// IterationsInfinite 无限循环
const IterationsInfinite Iterations = -1

// Iterations 迭代次数
// YAML 中写作正整数或 "infinite"
type Iterations int

// UnmarshalYAML 解析 "infinite" 或整数
func (it *Iterations) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("iterations must be a scalar, got yaml kind %d at line %d", value.Kind, value.Line)
	}
	text := strings.TrimSpace(value.Value)
	if strings.EqualFold(text, "infinite") {
		*it = IterationsInfinite
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid iterations %q at line %d: %w", value.Value, value.Line, err)
	}
	*it = Iterations(n)
	return nil
}

// MarshalYAML 无限循环输出为 "infinite"
func (it Iterations) MarshalYAML() (interface{}, error) {
	if it == IterationsInfinite {
		return "infinite", nil
	}
	return int(it), nil
}

// IsInfinite 是否无限循环
func (it Iterations) IsInfinite() bool {
	return it == IterationsInfinite
}

// ShimmerConfig 单个微光效果的配置
// 所有字段都有默认值，YAML 中只需写出要覆盖的字段
type ShimmerConfig struct {
	Duration     int     `yaml:"duration"`     // 单次扫光时长（毫秒）
	Delay        int     `yaml:"delay"`        // 两次扫光之间的间隔（毫秒）
	InitialDelay int     `yaml:"initialDelay"` // 首次开始前的延迟（毫秒），用于错开多个微光
	Color        string  `yaml:"color"`        // 微光颜色，如 "rgba(255,255,255,0.8)"、"#fff"
	Angle        float64 `yaml:"angle"`        // 倾斜角度（度），可为负
	ShimmerWidth float64 `yaml:"shimmerWidth"` // 微光带宽度（像素）
	Opacity      float64 `yaml:"opacity"`      // 峰值透明度乘数 0-1
	Active       bool    `yaml:"active"`       // 是否启用

	Mode      geometry.Mode      `yaml:"mode"`      // normal / expand / shrink
	Position  geometry.Position  `yaml:"position"`  // expand/shrink 的锚点：top / center / bottom
	Direction geometry.Direction `yaml:"direction"` // left-to-right / right-to-left

	Iterations           Iterations `yaml:"iterations"`           // 正整数或 infinite
	RespectReducedMotion bool       `yaml:"respectReducedMotion"` // 是否遵从系统"减少动态效果"
	Easing               string     `yaml:"easing"`               // 缓动曲线名称

	// 以下字段原样透传给宿主，不影响效果本身
	TestID             string `yaml:"testID"`
	AccessibilityLabel string `yaml:"accessibilityLabel"`
	Accessible         bool   `yaml:"accessible"`
}

// DefaultShimmerConfig 返回全部使用默认值的配置
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Duration:             DefaultDuration,
		Delay:                DefaultDelay,
		InitialDelay:         DefaultInitialDelay,
		Color:                DefaultColor,
		Angle:                geometry.DefaultAngle,
		ShimmerWidth:         geometry.DefaultShimmerWidth,
		Opacity:              DefaultOpacity,
		Active:               true,
		Mode:                 geometry.ModeNormal,
		Position:             geometry.PositionCenter,
		Direction:            geometry.LeftToRight,
		Iterations:           IterationsInfinite,
		RespectReducedMotion: true,
		Easing:               DefaultEasing,
	}
}

// LoadShimmerConfig 在默认值之上解析 YAML 并规范化
// 参数：
//
//	data - YAML 内容，可以为空（全部使用默认值）
//
// 返回：
//
//	*ShimmerConfig - 规范化后的配置
//	error - YAML 语法错误或字段类型错误
func LoadShimmerConfig(data []byte) (*ShimmerConfig, error) {
	cfg := DefaultShimmerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse shimmer config YAML: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Normalize 把非法值替换为默认值或截断到合法范围
//
// 装饰性效果不因配置错误而失败：每一处替换都会记录日志。
func (c *ShimmerConfig) Normalize() {
	c.Duration = clampNonNegative("duration", c.Duration)
	c.Delay = clampNonNegative("delay", c.Delay)
	c.InitialDelay = clampNonNegative("initialDelay", c.InitialDelay)

	if _, err := ParseColor(c.Color); err != nil {
		log.Printf("[Config] Warning: %v, using %s", err, DefaultColor)
		c.Color = DefaultColor
	}

	if angle := geometry.SanitizeAngle(c.Angle); angle != c.Angle {
		log.Printf("[Config] Warning: angle %v out of range, using %v", c.Angle, angle)
		c.Angle = angle
	}

	if !(c.ShimmerWidth > 0) || math.IsInf(c.ShimmerWidth, 0) {
		log.Printf("[Config] Warning: invalid shimmerWidth %v, using %v", c.ShimmerWidth, geometry.DefaultShimmerWidth)
		c.ShimmerWidth = geometry.DefaultShimmerWidth
	}

	if math.IsNaN(c.Opacity) {
		c.Opacity = DefaultOpacity
	}
	if clamped := utils.Clamp01(c.Opacity); clamped != c.Opacity {
		log.Printf("[Config] Warning: opacity %v clamped to %v", c.Opacity, clamped)
		c.Opacity = clamped
	}

	if !c.Mode.Valid() {
		log.Printf("[Config] Warning: unknown mode %q, using %s", c.Mode, geometry.ModeNormal)
		c.Mode = geometry.ModeNormal
	}
	if !c.Position.Valid() {
		log.Printf("[Config] Warning: unknown position %q, using %s", c.Position, geometry.PositionCenter)
		c.Position = geometry.PositionCenter
	}
	if !c.Direction.Valid() {
		log.Printf("[Config] Warning: unknown direction %q, using %s", c.Direction, geometry.LeftToRight)
		c.Direction = geometry.LeftToRight
	}

	if c.Iterations == 0 || c.Iterations < IterationsInfinite {
		log.Printf("[Config] Warning: invalid iterations %d, using 1", c.Iterations)
		c.Iterations = 1
	}

	if _, ok := utils.EasingByName(c.Easing); !ok {
		log.Printf("[Config] Warning: unknown easing %q, using %s", c.Easing, DefaultEasing)
		c.Easing = DefaultEasing
	}
}

func clampNonNegative(field string, ms int) int {
	if ms < 0 {
		log.Printf("[Config] Warning: negative %s %d, using 0", field, ms)
		return 0
	}
	return ms
}

// PlaybackOptions 转换为播放控制器参数（不含回调）
func (c ShimmerConfig) PlaybackOptions() playback.Options {
	easing, _ := utils.EasingByName(c.Easing)
	return playback.Options{
		Duration:     time.Duration(c.Duration) * time.Millisecond,
		Delay:        time.Duration(c.Delay) * time.Millisecond,
		InitialDelay: time.Duration(c.InitialDelay) * time.Millisecond,
		Iterations:   int(c.Iterations),
		Easing:       easing,
	}
}

// GeometryKey 结合容器尺寸生成几何缓存键
func (c ShimmerConfig) GeometryKey(width, height float64) geometry.Key {
	return geometry.Key{
		Width:        width,
		Height:       height,
		Angle:        c.Angle,
		ShimmerWidth: c.ShimmerWidth,
		Mode:         c.Mode,
		Position:     c.Position,
		Direction:    c.Direction,
	}
}

// PeakColor 微光中心的颜色（非预乘），alpha 已乘以 Opacity
// 颜色无法解析时使用默认颜色
func (c ShimmerConfig) PeakColor() color.NRGBA {
	clr, err := ParseColor(c.Color)
	if err != nil {
		clr, _ = ParseColor(DefaultColor)
	}
	clr.A = uint8(math.Round(float64(clr.A) * utils.Clamp01(c.Opacity)))
	return clr
}

// PeakAlpha 微光中心的透明度 0-1
func (c ShimmerConfig) PeakAlpha() float64 {
	return float64(c.PeakColor().A) / 255
}

// UnmarshalYAML 在默认值之上解码，未写出的字段保持默认
// 嵌套在列表或其它结构中的微光配置同样适用
func (c *ShimmerConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ShimmerConfig
	p := plain(DefaultShimmerConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = ShimmerConfig(p)
	return nil
}
