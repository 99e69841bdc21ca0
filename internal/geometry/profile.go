// Package geometry 把微光参数换算成可绘制的矩形层
//
// 宿主没有真正的线性/径向渐变，只能绘制单色矩形。这里用有限个重叠矩形
// 近似二维透明度渐变：水平方向切成若干"层"（Layer），每层再在竖直方向
// 切成若干"段"（Segment），两者的透明度相乘得到每个矩形的最终透明度。
package geometry

import "math"

// 水平透明度曲线的分区边界（以距中心的归一化距离计）
const (
	coreZone     = 0.15 // 平顶亮芯
	shoulderZone = 0.30 // 线性下降到 40%
	shoulderLow  = 0.4
)

// GenerateOpacityProfile 生成 count 层的水平透明度曲线
//
// 曲线中心很窄、很亮，两侧是很长的柔和衰减：
//   - d < 0.15：peak
//   - 0.15 ≤ d < 0.30：线性下降到 0.4·peak
//   - d ≥ 0.30：0.4·peak·(1-t)² 二次衰减到 0
//
// 其中 d = |i - center| / center，center = (count-1)/2；count=1 时 d 取 0。
// count < 1 按 1 处理，peak 被限制在 [0, 1]。
func GenerateOpacityProfile(count int, peak float64) []float64 {
	if count < 1 {
		count = 1
	}
	if math.IsNaN(peak) || peak < 0 {
		peak = 0
	}
	if peak > 1 {
		peak = 1
	}

	profile := make([]float64, count)
	center := float64(count-1) / 2
	for i := range profile {
		d := 0.0
		if center > 0 {
			d = math.Abs(float64(i)-center) / center
		}

		var opacity float64
		switch {
		case d < coreZone:
			opacity = peak
		case d < shoulderZone:
			t := (d - coreZone) / (shoulderZone - coreZone)
			opacity = peak * (1 - (1-shoulderLow)*t)
		default:
			t := (d - shoulderZone) / (1 - shoulderZone)
			opacity = peak * shoulderLow * (1 - t) * (1 - t)
		}
		profile[i] = math.Max(0, opacity)
	}
	return profile
}
