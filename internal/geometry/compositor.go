package geometry

import (
	"math"

	"github.com/decker502/shimmer/pkg/utils"
)

// Mode 线条高度的动画方式
type Mode string

const (
	ModeNormal Mode = "normal" // 高度不变
	ModeExpand Mode = "expand" // 高度从 0.01 长到 1
	ModeShrink Mode = "shrink" // 高度从 1 缩到 0.01
)

// Animated 线条高度是否随进度缩放
func (m Mode) Animated() bool {
	return m == ModeExpand || m == ModeShrink
}

// Valid 是否为已知模式
func (m Mode) Valid() bool {
	return m == ModeNormal || m.Animated()
}

// Position 缩放锚点
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Valid 是否为已知锚点
func (p Position) Valid() bool {
	return p == PositionTop || p == PositionCenter || p == PositionBottom
}

// Direction 扫光方向
type Direction string

const (
	LeftToRight Direction = "left-to-right"
	RightToLeft Direction = "right-to-left"
)

// Valid 是否为已知方向
func (d Direction) Valid() bool {
	return d == LeftToRight || d == RightToLeft
}

// 几何常量
const (
	// MinLayers 水平层数下限，在视觉精度和绘制开销之间折中
	MinLayers = 11
	// LayerDivisor 每层的目标宽度（像素）
	LayerDivisor = 3.0
	// TravelConstant 倾斜补偿的最小参考高度
	TravelConstant = 200.0
	// LineHeightMultiplier expand/shrink 模式下线条相对容器的高度倍数
	LineHeightMultiplier = 1.5
	// MinScale 竖直缩放下限，避免出现零尺寸矩形
	MinScale = 0.01
	// MaxAngle 角度绝对值上限；接近 ±90° 时几何退化
	MaxAngle = 89.0
	// DefaultAngle 角度为 NaN/Inf 时使用的默认值
	DefaultAngle = 20.0
	// DefaultShimmerWidth 宽度非法时使用的默认值
	DefaultShimmerWidth = 60.0
)

// LayerDescriptor 微光带中的一个竖直切片
type LayerDescriptor struct {
	Offset      float64 // 相对微光带中心的水平偏移（像素）
	Width       float64 // 宽度（像素）
	BaseOpacity float64 // 来自水平透明度曲线
}

// Key 决定几何形状的全部输入；可比较，用作缓存键
type Key struct {
	Width        float64
	Height       float64
	Angle        float64
	ShimmerWidth float64
	Mode         Mode
	Position     Position
	Direction    Direction
}

// Point 容器坐标系中的点，原点在容器左上角
type Point struct {
	X, Y float64
}

// Quad 一个待绘制的矩形（倾斜后为平行四边形）
// 顶点顺序：左上、右上、右下、左下
type Quad struct {
	Points [4]Point
	Alpha  float64
}

// Geometry 一次渲染所需的静态几何
// 由 Compose 生成后只读，所有层共享
type Geometry struct {
	Key      Key
	Layers   []LayerDescriptor
	Segments []SegmentDescriptor

	LineHeight float64 // 缩放前的线条高度
	LineTop    float64 // 缩放前的线条顶部 y
	PivotY     float64 // 竖直缩放锚点 y

	TranslateFrom float64 // progress=0 时微光带中心 x
	TranslateTo   float64 // progress=1 时微光带中心 x
	ScaleFrom     float64
	ScaleTo       float64
	Skew          float64 // tan(angle)，x' = x - Skew·(y - Height/2)
}

// LayerCount 微光宽度对应的层数：max(11, round(width/3))
func LayerCount(shimmerWidth float64) int {
	n := int(math.Round(shimmerWidth / LayerDivisor))
	if n < MinLayers {
		return MinLayers
	}
	return n
}

// SanitizeAngle NaN/Inf 使用默认角度，其余限制在 ±MaxAngle
func SanitizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return DefaultAngle
	}
	return math.Max(-MaxAngle, math.Min(MaxAngle, angle))
}

// Compose 根据容器尺寸和微光参数生成几何
//
// 容器尚未测量（宽或高 ≤ 0）时返回 nil，表示不输出任何层。
func Compose(key Key) *Geometry {
	if !(key.Width > 0) || !(key.Height > 0) {
		return nil
	}
	key.Angle = SanitizeAngle(key.Angle)
	if !(key.ShimmerWidth > 0) || math.IsInf(key.ShimmerWidth, 0) {
		key.ShimmerWidth = DefaultShimmerWidth
	}
	if !key.Mode.Valid() {
		key.Mode = ModeNormal
	}
	if !key.Position.Valid() {
		key.Position = PositionCenter
	}
	if !key.Direction.Valid() {
		key.Direction = LeftToRight
	}

	g := &Geometry{Key: key}

	// 水平层
	count := LayerCount(key.ShimmerWidth)
	layerWidth := key.ShimmerWidth / float64(count)
	profile := GenerateOpacityProfile(count, 1)
	g.Layers = make([]LayerDescriptor, count)
	for i := range g.Layers {
		g.Layers[i] = LayerDescriptor{
			Offset:      float64(i)*layerWidth - key.ShimmerWidth/2 + layerWidth/2,
			Width:       layerWidth,
			BaseOpacity: profile[i],
		}
	}

	// 竖直段与线条高度
	fadeRatio := FadeRatioFor(key.Mode)
	g.Segments = GenerateVerticalSegments(fadeRatio)
	if key.Mode.Animated() {
		g.LineHeight = key.Height * LineHeightMultiplier
	} else {
		// 静态线条：渐隐区刚好落在容器上下边缘
		g.LineHeight = key.Height * (1 + 2*fadeRatio)
	}
	g.LineTop = (key.Height - g.LineHeight) / 2

	switch key.Position {
	case PositionTop:
		g.PivotY = g.LineTop
	case PositionBottom:
		g.PivotY = g.LineTop + g.LineHeight
	default:
		g.PivotY = g.LineTop + g.LineHeight/2
	}

	switch key.Mode {
	case ModeExpand:
		g.ScaleFrom, g.ScaleTo = MinScale, 1
	case ModeShrink:
		g.ScaleFrom, g.ScaleTo = 1, MinScale
	default:
		g.ScaleFrom, g.ScaleTo = 1, 1
	}

	// 倾斜与行程：可见部分的最大水平错位为 |tan|·Height/2
	g.Skew = math.Tan(key.Angle * math.Pi / 180)
	extraTravel := math.Abs(g.Skew) * math.Max(TravelConstant, key.Height/2)
	start := -key.ShimmerWidth - extraTravel
	end := key.Width + key.ShimmerWidth + extraTravel
	if key.Direction == RightToLeft {
		start, end = end, start
	}
	g.TranslateFrom, g.TranslateTo = start, end

	return g
}

// TranslateAt 进度 p 时微光带中心的 x
func (g *Geometry) TranslateAt(p float64) float64 {
	return utils.Lerp(g.TranslateFrom, g.TranslateTo, p)
}

// ScaleAt 进度 p 时的竖直缩放
func (g *Geometry) ScaleAt(p float64) float64 {
	return utils.Lerp(g.ScaleFrom, g.ScaleTo, utils.Clamp01(p))
}

// HorizontalExtent 进度 p 时微光带在容器第 y 行覆盖的水平范围
func (g *Geometry) HorizontalExtent(p, y float64) (minX, maxX float64) {
	center := g.TranslateAt(p) - g.Skew*(y-g.Key.Height/2)
	half := g.Key.ShimmerWidth / 2
	return center - half, center + half
}

// Quads 计算进度 p 时的全部矩形，alpha 为整体透明度（颜色 alpha × opacity）
func (g *Geometry) Quads(p, alpha float64) []Quad {
	return g.AppendQuads(nil, p, alpha)
}

// AppendQuads 与 Quads 相同，但追加到 dst 以便每帧复用切片
// 透明度为 0 的矩形会被跳过
func (g *Geometry) AppendQuads(dst []Quad, p, alpha float64) []Quad {
	if alpha <= 0 {
		return dst
	}
	center := g.TranslateAt(p)
	scale := g.ScaleAt(p)
	midY := g.Key.Height / 2

	shear := func(x, y float64) Point {
		return Point{X: x - g.Skew*(y-midY), Y: y}
	}

	for _, layer := range g.Layers {
		if layer.BaseOpacity <= 0 {
			continue
		}
		x0 := center + layer.Offset - layer.Width/2
		x1 := x0 + layer.Width

		top := g.LineTop
		for _, seg := range g.Segments {
			h := seg.HeightRatio * g.LineHeight
			y0 := g.PivotY + (top-g.PivotY)*scale
			y1 := g.PivotY + (top+h-g.PivotY)*scale
			top += h

			a := alpha * layer.BaseOpacity * seg.Opacity
			if a <= 0 || h <= 0 {
				continue
			}
			dst = append(dst, Quad{
				Points: [4]Point{shear(x0, y0), shear(x1, y0), shear(x1, y1), shear(x0, y1)},
				Alpha:  a,
			})
		}
	}
	return dst
}
