package systems

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/shimmer/pkg/ecs"
	"github.com/decker502/shimmer/pkg/playback"
)

func TestShimmerRenderSystemDraw(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewShimmerSystem(em)
	r := NewShimmerRenderSystem(em)
	screen := ebiten.NewImage(400, 200)

	id := spawn(t, em, s, newTestEntry("a", 300, 40), nil)

	// 未测量：只有占位块的边界还未上报，不绘制微光
	r.Draw(screen)
	if r.LastQuadCount() != 0 {
		t.Errorf("测量前 LastQuadCount = %d, want 0", r.LastQuadCount())
	}

	s.Update(0)
	s.Update(0.05)
	r.Draw(screen)

	shimmer := shimmerOf(t, em, id)
	g := shimmer.Geometry(300, 40)
	want := 0
	for _, layer := range g.Layers {
		// 最外侧的层透明度为 0，不输出
		if layer.BaseOpacity > 0 {
			want += len(g.Segments)
		}
	}
	if want == 0 || want >= len(g.Layers)*len(g.Segments) {
		t.Fatalf("前置条件: want = %d", want)
	}
	if got := r.LastQuadCount(); got != want {
		t.Errorf("LastQuadCount = %d, want %d", got, want)
	}

	c, _ := s.Controller(id)
	c.SetReducedMotion(true)
	r.Draw(screen)
	if r.LastQuadCount() != 0 {
		t.Errorf("减少动态效果生效时 LastQuadCount = %d, want 0", r.LastQuadCount())
	}
}

func TestShimmerRenderSystemHiddenStates(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(s *ShimmerSystem, id ecs.EntityID)
		reduce playback.ReducedMotionSource
	}{
		{"active=false", func(s *ShimmerSystem, id ecs.EntityID) {
			shimmer, _ := s.Controller(id)
			shimmer.SetActive(false)
		}, nil},
		{"减少动态效果", func(*ShimmerSystem, ecs.EntityID) {}, playback.StaticReducedMotion{Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			s := NewShimmerSystem(em)
			r := NewShimmerRenderSystem(em)
			entry := newTestEntry("a", 300, 40)
			if tt.name == "active=false" {
				entry.Shimmer.Active = false
			}
			id := spawn(t, em, s, entry, tt.reduce)
			tt.setup(s, id)
			s.Update(0.1)

			r.Draw(ebiten.NewImage(400, 200))
			if r.LastQuadCount() != 0 {
				t.Errorf("LastQuadCount = %d, want 0", r.LastQuadCount())
			}
		})
	}
}

func TestShimmerRenderSystemBatchesLargeBands(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewShimmerSystem(em)
	r := NewShimmerRenderSystem(em)
	entry := newTestEntry("wide", 300, 40)
	entry.Shimmer.ShimmerWidth = 60000 // 20000 层 × 11 段，超过单批顶点上限
	spawn(t, em, s, entry, nil)
	s.Update(0)
	s.Update(0.05)

	r.Draw(ebiten.NewImage(400, 200))
	if r.LastQuadCount() <= maxBatchVertices/4 {
		t.Fatalf("前置条件: 需要超过单批上限, got %d", r.LastQuadCount())
	}
}
