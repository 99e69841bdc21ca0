package geometry

// FadeSteps 每条边缘的渐隐段数
const FadeSteps = 5

// 竖直渐隐比例
const (
	// StaticFadeRatio 静态高度的线条（normal 模式）
	StaticFadeRatio = 0.15
	// AnimatedFadeRatio 高度被缩放的线条（expand/shrink 模式）
	AnimatedFadeRatio = 0.25
	// maxFadeRatio 保证中间实心段高度为正
	maxFadeRatio = 0.49
)

// SegmentDescriptor 一层中的一个竖直段
type SegmentDescriptor struct {
	HeightRatio float64 // 占线条总高度的比例
	Opacity     float64 // 0-1
}

// GenerateVerticalSegments 生成自上而下的竖直段：顶部渐入、实心中段、底部渐出
//
// 每条边缘 5 段，第 k 段（从 1 开始）高度 fadeRatio/5、透明度 (k/5)²；
// 中段高度 1-2·fadeRatio、透明度 1；底部与顶部镜像。
// fadeRatio 被限制在 [0, 0.49]；为 0 时只返回一个实心段。
func GenerateVerticalSegments(fadeRatio float64) []SegmentDescriptor {
	if !(fadeRatio > 0) {
		return []SegmentDescriptor{{HeightRatio: 1, Opacity: 1}}
	}
	if fadeRatio > maxFadeRatio {
		fadeRatio = maxFadeRatio
	}

	segments := make([]SegmentDescriptor, 0, 2*FadeSteps+1)
	step := fadeRatio / FadeSteps
	for k := 1; k <= FadeSteps; k++ {
		f := float64(k) / FadeSteps
		segments = append(segments, SegmentDescriptor{HeightRatio: step, Opacity: f * f})
	}
	segments = append(segments, SegmentDescriptor{HeightRatio: 1 - 2*fadeRatio, Opacity: 1})
	for k := FadeSteps - 1; k >= 0; k-- {
		segments = append(segments, segments[k])
	}
	return segments
}

// FadeRatioFor 按模式选择渐隐比例
func FadeRatioFor(mode Mode) float64 {
	if mode.Animated() {
		return AnimatedFadeRatio
	}
	return StaticFadeRatio
}
