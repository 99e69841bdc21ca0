package systems

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/shimmer/internal/geometry"
	"github.com/decker502/shimmer/pkg/components"
	"github.com/decker502/shimmer/pkg/ecs"
)

var (
	// 3x3 白色图片取中心 1x1，避免采样到边缘
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// 单次 DrawTriangles 的顶点上限（uint16 索引）
const maxBatchVertices = 65532

// ShimmerRenderSystem 微光渲染系统
// 先绘制骨架占位块，再把微光几何以半透明矩形叠加在容器内
//
// 微光只在容器范围内可见：所有矩形绘制到容器对应的子图上，超出部分被裁剪。
type ShimmerRenderSystem struct {
	entityManager *ecs.EntityManager

	quads    []geometry.Quad
	vertices []ebiten.Vertex
	indices  []uint16

	// 最近一次 Draw 输出的微光矩形数量，用于调试信息
	lastQuadCount int
}

// NewShimmerRenderSystem 创建微光渲染系统
func NewShimmerRenderSystem(em *ecs.EntityManager) *ShimmerRenderSystem {
	return &ShimmerRenderSystem{
		entityManager: em,
	}
}

// LastQuadCount 最近一帧绘制的微光矩形数量
func (s *ShimmerRenderSystem) LastQuadCount() int {
	return s.lastQuadCount
}

// Draw 渲染所有骨架占位块及其微光
func (s *ShimmerRenderSystem) Draw(screen *ebiten.Image) {
	s.lastQuadCount = 0
	entities := ecs.GetEntitiesWith2[*components.BoundsComponent, *components.ShimmerComponent](s.entityManager)
	for _, id := range entities {
		s.DrawEntity(screen, id)
	}
}

// DrawEntity 渲染单个实体
func (s *ShimmerRenderSystem) DrawEntity(screen *ebiten.Image, id ecs.EntityID) {
	bounds, ok := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
	if !ok || !bounds.Measured() {
		return
	}

	if skeleton, ok := ecs.GetComponent[*components.SkeletonComponent](s.entityManager, id); ok {
		s.fillRect(screen, bounds, skeleton.BaseColor)
	}

	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
	if !ok || !shimmer.Visible() {
		return
	}
	g := shimmer.Geometry(shimmer.MeasuredWidth, shimmer.MeasuredHeight)
	if g == nil {
		return
	}

	peak := shimmer.PeakColor
	s.quads = g.AppendQuads(s.quads[:0], shimmer.Progress.Get(), float64(peak.A)/255)
	if len(s.quads) == 0 {
		return
	}
	s.lastQuadCount += len(s.quads)

	clip := image.Rect(
		int(bounds.X), int(bounds.Y),
		int(bounds.X+bounds.Width), int(bounds.Y+bounds.Height),
	)
	dst, ok := screen.SubImage(clip).(*ebiten.Image)
	if !ok {
		return
	}
	s.drawQuads(dst, bounds.X, bounds.Y, peak)
}

// drawQuads 把容器坐标系下的矩形平移到屏幕坐标后批量绘制
func (s *ShimmerRenderSystem) drawQuads(dst *ebiten.Image, originX, originY float64, clr color.NRGBA) {
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	b := float32(clr.B) / 255

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, q := range s.quads {
		if len(s.vertices)+4 > maxBatchVertices {
			s.flush(dst)
		}
		a := float32(q.Alpha)
		base := uint16(len(s.vertices))
		for _, pt := range q.Points {
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX:   float32(originX + pt.X),
				DstY:   float32(originY + pt.Y),
				SrcX:   1,
				SrcY:   1,
				ColorR: r,
				ColorG: g,
				ColorB: b,
				ColorA: a,
			})
		}
		// Points 顺序：左上、右上、右下、左下
		s.indices = append(s.indices, base, base+1, base+2, base, base+2, base+3)
	}
	s.flush(dst)
}

func (s *ShimmerRenderSystem) flush(dst *ebiten.Image) {
	if len(s.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
	}
	dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// fillRect 用同一条三角形路径绘制不透明的占位块
func (s *ShimmerRenderSystem) fillRect(dst *ebiten.Image, bounds *components.BoundsComponent, clr color.NRGBA) {
	x0, y0 := float32(bounds.X), float32(bounds.Y)
	x1, y1 := float32(bounds.X+bounds.Width), float32(bounds.Y+bounds.Height)
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255

	vs := []ebiten.Vertex{
		{DstX: x0, DstY: y0, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1, DstY: y0, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x1, DstY: y1, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		{DstX: x0, DstY: y1, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	}
	is := []uint16{0, 1, 2, 0, 2, 3}
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
	})
}
