// Package raster 软件宿主适配器
//
// 把微光几何光栅化到 *image.NRGBA，不依赖 GPU。
// 用于离线导出帧序列以及在没有窗口的环境中检查效果。
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/decker502/shimmer/internal/geometry"
)

// Renderer 固定尺寸的矩形光栅化器
// 不是并发安全的；并行渲染时每个 goroutine 使用自己的 Renderer
type Renderer struct {
	width, height int
	rast          *vector.Rasterizer

	// 裁剪用的临时缓冲
	polyA, polyB []geometry.Point
}

// NewRenderer 创建 width×height 的渲染器（容器尺寸，像素）
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		rast:   vector.NewRasterizer(width, height),
	}
}

// Size 渲染尺寸
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// NewFrame 创建与渲染器同尺寸的空白帧
func (r *Renderer) NewFrame() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
}

// Render 先用底色填满 dst，再把 quads 以 clr 的 RGB 叠加上去
//
// 参数：
//
//	dst - 与渲染器同尺寸的目标图片
//	base - 骨架占位块底色
//	quads - 容器坐标系下的矩形，alpha 已包含峰值透明度
//	clr - 微光颜色，只使用 RGB
func (r *Renderer) Render(dst *image.NRGBA, base color.NRGBA, quads []geometry.Quad, clr color.NRGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(base), image.Point{}, draw.Src)
	for _, q := range quads {
		r.fillQuad(dst, q, clr)
	}
}

func (r *Renderer) fillQuad(dst *image.NRGBA, q geometry.Quad, clr color.NRGBA) {
	a := alphaByte(q.Alpha)
	if a == 0 {
		return
	}
	poly := r.clip(q.Points[:])
	if len(poly) < 3 {
		return
	}

	r.rast.Reset(r.width, r.height)
	r.rast.DrawOp = draw.Over
	r.rast.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		r.rast.LineTo(float32(p.X), float32(p.Y))
	}
	r.rast.ClosePath()

	src := image.NewUniform(color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: a})
	r.rast.Draw(dst, dst.Bounds(), src, image.Point{})
}

func alphaByte(alpha float64) uint8 {
	if !(alpha > 0) {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint8(math.Round(alpha * 255))
}

// clip 把凸多边形裁剪到 [0,width]×[0,height]（Sutherland–Hodgman）
func (r *Renderer) clip(points []geometry.Point) []geometry.Point {
	w, h := float64(r.width), float64(r.height)
	r.polyA = append(r.polyA[:0], points...)

	edges := []struct {
		inside func(p geometry.Point) bool
		cross  func(a, b geometry.Point) geometry.Point
	}{
		{func(p geometry.Point) bool { return p.X >= 0 }, func(a, b geometry.Point) geometry.Point { return atX(a, b, 0) }},
		{func(p geometry.Point) bool { return p.X <= w }, func(a, b geometry.Point) geometry.Point { return atX(a, b, w) }},
		{func(p geometry.Point) bool { return p.Y >= 0 }, func(a, b geometry.Point) geometry.Point { return atY(a, b, 0) }},
		{func(p geometry.Point) bool { return p.Y <= h }, func(a, b geometry.Point) geometry.Point { return atY(a, b, h) }},
	}

	for _, e := range edges {
		in := r.polyA
		r.polyB = r.polyB[:0]
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			curIn, prevIn := e.inside(cur), e.inside(prev)
			switch {
			case curIn && prevIn:
				r.polyB = append(r.polyB, cur)
			case curIn:
				r.polyB = append(r.polyB, e.cross(prev, cur), cur)
			case prevIn:
				r.polyB = append(r.polyB, e.cross(prev, cur))
			}
		}
		r.polyA, r.polyB = r.polyB, r.polyA
		if len(r.polyA) == 0 {
			break
		}
	}
	return r.polyA
}

func atX(a, b geometry.Point, x float64) geometry.Point {
	t := (x - a.X) / (b.X - a.X)
	return geometry.Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

func atY(a, b geometry.Point, y float64) geometry.Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return geometry.Point{X: a.X + t*(b.X-a.X), Y: y}
}
