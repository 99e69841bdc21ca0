package utils

import (
	"math"
	"strings"
)

// 缓动函数（Easing Functions）
//
// 微光扫过的速度曲线由缓动函数决定。
// 所有函数接受进度 t ∈ [0, 1]，返回缓动后的值；端点固定为 f(0)=0、f(1)=1。
//
// 参考：https://easings.net/

// EasingFunc 缓动函数签名
// 自定义缓动可以直接传入 playback.Options.Easing
type EasingFunc func(t float64) float64

// EaseLinear 线性（匀速）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad 二次方缓入，公式 f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad 二次方缓出，公式 f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// EaseOutCubic 三次方缓出，公式 f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5:  f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInOutSine 正弦缓入缓出（微光默认曲线）
// 起止都很柔和，扫光在两端不会显得突兀
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// DefaultEasing 未指定缓动时使用的曲线
var DefaultEasing EasingFunc = EaseInOutSine

var easingsByName = map[string]EasingFunc{
	"linear":            EaseLinear,
	"ease-in-quad":      EaseInQuad,
	"ease-out-quad":     EaseOutQuad,
	"ease-in-out-quad":  EaseInOutQuad,
	"ease-out-cubic":    EaseOutCubic,
	"ease-in-out-cubic": EaseInOutCubic,
	"ease-in-out-sine":  EaseInOutSine,
}

// EasingByName 按配置文件中的名称查找缓动函数
// 名称不区分大小写；空字符串返回 DefaultEasing
//
// 返回：
//   - EasingFunc: 找到的缓动函数（未找到时为 DefaultEasing）
//   - bool: 名称是否被识别
func EasingByName(name string) (EasingFunc, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return DefaultEasing, true
	}
	fn, ok := easingsByName[key]
	if !ok {
		return DefaultEasing, false
	}
	return fn, true
}

// Clamp01 把值限制在 [0, 1]，NaN 视为 0
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
