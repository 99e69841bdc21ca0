package raster

import (
	"image/color"
	"testing"

	"github.com/decker502/shimmer/internal/geometry"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func rectQuad(x0, y0, x1, y1, alpha float64) geometry.Quad {
	return geometry.Quad{
		Points: [4]geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}},
		Alpha:  alpha,
	}
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestRenderFillsBaseColor(t *testing.T) {
	r := NewRenderer(40, 10)
	frame := r.NewFrame()
	base := color.NRGBA{10, 20, 30, 255}
	r.Render(frame, base, nil, white)

	for _, pt := range [][2]int{{0, 0}, {39, 9}, {20, 5}} {
		if got := frame.NRGBAAt(pt[0], pt[1]); got != base {
			t.Errorf("(%d,%d) = %v, want %v", pt[0], pt[1], got, base)
		}
	}
}

func TestRenderQuadCoverage(t *testing.T) {
	tests := []struct {
		name  string
		quad  geometry.Quad
		x, y  int
		want  uint8
		tol   int
	}{
		{"完全覆盖的像素为白色", rectQuad(0, 0, 50, 20, 1), 10, 10, 255, 0},
		{"矩形外保持底色", rectQuad(0, 0, 50, 20, 1), 80, 10, 0, 0},
		{"半透明叠加", rectQuad(0, 0, 50, 20, 0.5), 10, 10, 128, 2},
		{"超出容器的矩形被裁剪", rectQuad(-500, -100, 30, 500, 1), 10, 10, 255, 0},
		{"完全在容器外", rectQuad(-200, 0, -100, 20, 1), 0, 10, 0, 0},
		{"透明度为 0 不绘制", rectQuad(0, 0, 100, 20, 0), 10, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(100, 20)
			frame := r.NewFrame()
			r.Render(frame, black, []geometry.Quad{tt.quad}, white)

			got := frame.NRGBAAt(tt.x, tt.y)
			if !near(got.R, tt.want, tt.tol) || got.A != 255 {
				t.Errorf("(%d,%d) = %v, want R≈%d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderSkewedQuad(t *testing.T) {
	r := NewRenderer(100, 20)
	frame := r.NewFrame()
	// 上边在 x∈[40,60]，下边在 x∈[20,40]
	q := geometry.Quad{
		Points: [4]geometry.Point{{X: 40, Y: 0}, {X: 60, Y: 0}, {X: 40, Y: 20}, {X: 20, Y: 20}},
		Alpha:  1,
	}
	r.Render(frame, black, []geometry.Quad{q}, white)

	if got := frame.NRGBAAt(50, 1); got.R != 255 {
		t.Errorf("顶部中心 = %v, want white", got)
	}
	if got := frame.NRGBAAt(50, 18); got.R != 0 {
		t.Errorf("底部 x=50 应在平行四边形外, got %v", got)
	}
	if got := frame.NRGBAAt(30, 18); got.R != 255 {
		t.Errorf("底部中心 = %v, want white", got)
	}
}

func TestRenderComposedGeometry(t *testing.T) {
	key := geometry.Key{
		Width: 120, Height: 24, Angle: 20, ShimmerWidth: 60,
		Mode: geometry.ModeNormal, Position: geometry.PositionCenter, Direction: geometry.LeftToRight,
	}
	g := geometry.Compose(key)
	r := NewRenderer(120, 24)
	base := color.NRGBA{40, 40, 40, 255}

	// 起止进度时微光带完全在容器外，画面只有底色
	for _, p := range []float64{0, 1} {
		frame := r.NewFrame()
		r.Render(frame, base, g.Quads(p, 0.8), white)
		for x := 0; x < 120; x++ {
			for y := 0; y < 24; y++ {
				if got := frame.NRGBAAt(x, y); got != base {
					t.Fatalf("p=%v (%d,%d) = %v, 微光带应完全在容器外", p, x, y, got)
				}
			}
		}
	}

	// 中途容器中心被照亮
	mid := 0.0
	for p := 0.0; p <= 1; p += 0.01 {
		if c := g.TranslateAt(p); c >= 60 {
			mid = p
			break
		}
	}
	frame := r.NewFrame()
	r.Render(frame, base, g.Quads(mid, 0.8), white)
	if got := frame.NRGBAAt(60, 12); got.R <= base.R {
		t.Errorf("中心像素 = %v, 应比底色亮", got)
	}
}
