package components

import (
	"image/color"
	"log"

	"github.com/decker502/shimmer/internal/geometry"
	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/playback"
)

// ShimmerComponent 微光效果组件
//
// Config 由调用方整体提供，组件内不修改它的字段；
// 更新配置请使用 ShimmerSystem.Configure。
type ShimmerComponent struct {
	Config     config.ShimmerConfig
	Controller *playback.Controller
	Progress   *tween.Value
	Cache      geometry.Cache

	// PeakColor 微光中心颜色，alpha 已包含 Opacity
	PeakColor color.NRGBA

	// 最近一次上报给控制器的容器尺寸
	MeasuredWidth  float64
	MeasuredHeight float64

	// 回调计数，供调试信息显示
	StartCount    int
	CompleteCount int
}

// Geometry 返回当前容器尺寸下的几何，只在键变化时重新计算
// 未测量的容器返回 nil
func (c *ShimmerComponent) Geometry(width, height float64) *geometry.Geometry {
	return c.Cache.Get(c.Config.GeometryKey(width, height))
}

// Visible 当前是否应绘制微光
// 未测量、active=false、或减少动态效果被遵从时不输出任何层
func (c *ShimmerComponent) Visible() bool {
	if !(c.MeasuredWidth > 0) || !(c.MeasuredHeight > 0) || !c.Config.Active {
		return false
	}
	return c.Controller == nil || !c.Controller.ReducedMotionInEffect()
}

// PlaybackOptions 由当前配置生成控制器参数，回调更新组件上的计数
func (c *ShimmerComponent) PlaybackOptions(name string) playback.Options {
	opts := c.Config.PlaybackOptions()
	opts.OnStart = func() {
		c.StartCount++
		log.Printf("[Shimmer] %s started", name)
	}
	opts.OnComplete = func() {
		c.CompleteCount++
		log.Printf("[Shimmer] %s completed", name)
	}
	return opts
}
