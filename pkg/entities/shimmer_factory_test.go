package entities

import (
	"image/color"
	"testing"
	"time"

	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/components"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/ecs"
	"github.com/decker502/shimmer/pkg/playback"
)

func testEntry(id string) config.ShimmerEntryConfig {
	return config.ShimmerEntryConfig{
		ID:        id,
		Bounds:    config.Rect{X: 10, Y: 20, Width: 300, Height: 40},
		BaseColor: "#3a3d46",
		Shimmer:   config.DefaultShimmerConfig(),
	}
}

func TestNewShimmerEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	tl := tween.NewTimeline()

	id, err := NewShimmerEntity(em, tl, testEntry("title"), nil)
	if err != nil {
		t.Fatalf("NewShimmerEntity() error: %v", err)
	}

	bounds, ok := ecs.GetComponent[*components.BoundsComponent](em, id)
	if !ok || bounds.Width != 300 || bounds.Height != 40 || bounds.X != 10 {
		t.Errorf("BoundsComponent = %+v, %v", bounds, ok)
	}

	skeleton, ok := ecs.GetComponent[*components.SkeletonComponent](em, id)
	if !ok || skeleton.BaseColor != (color.NRGBA{0x3a, 0x3d, 0x46, 0xff}) {
		t.Errorf("SkeletonComponent = %+v, %v", skeleton, ok)
	}

	a11y, ok := ecs.GetComponent[*components.AccessibilityComponent](em, id)
	if !ok || a11y.TestID != "title" {
		t.Errorf("未配置 testID 时应使用条目 id, got %+v", a11y)
	}

	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](em, id)
	if !ok {
		t.Fatal("缺少 ShimmerComponent")
	}
	if shimmer.Controller == nil || shimmer.Controller.State().Phase != playback.PhaseIdle {
		t.Error("控制器应在测量前保持 idle")
	}
	if shimmer.PeakColor != (color.NRGBA{255, 255, 255, 204}) {
		t.Errorf("PeakColor = %v", shimmer.PeakColor)
	}
	if tl.Active() != 0 {
		t.Errorf("测量前不应启动任何补间, Active() = %d", tl.Active())
	}
}

func TestNewShimmerEntityPassThroughFields(t *testing.T) {
	em := ecs.NewEntityManager()
	entry := testEntry("card")
	entry.Shimmer.TestID = "card-shimmer"
	entry.Shimmer.AccessibilityLabel = "Loading card"
	entry.Shimmer.Accessible = true

	id, err := NewShimmerEntity(em, tween.NewTimeline(), entry, nil)
	if err != nil {
		t.Fatalf("NewShimmerEntity() error: %v", err)
	}
	a11y, _ := ecs.GetComponent[*components.AccessibilityComponent](em, id)
	want := components.AccessibilityComponent{TestID: "card-shimmer", Label: "Loading card", Accessible: true}
	if *a11y != want {
		t.Errorf("AccessibilityComponent = %+v, want %+v", *a11y, want)
	}
}

func TestNewShimmerEntityErrors(t *testing.T) {
	tests := []struct {
		name     string
		animator playback.Animator
		modify   func(e *config.ShimmerEntryConfig)
	}{
		{"缺少时间线", nil, func(*config.ShimmerEntryConfig) {}},
		{"底色无法解析", tween.NewTimeline(), func(e *config.ShimmerEntryConfig) { e.BaseColor = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			entry := testEntry("x")
			tt.modify(&entry)
			if _, err := NewShimmerEntity(em, tt.animator, entry, nil); err == nil {
				t.Error("期望返回错误")
			}
			if em.EntityCount() != 0 {
				t.Error("出错时不应创建实体")
			}
		})
	}
}

func TestNewShimmerEntityRespectsReducedMotion(t *testing.T) {
	em := ecs.NewEntityManager()
	tl := tween.NewTimeline()
	id, _ := NewShimmerEntity(em, tl, testEntry("a"), playback.StaticReducedMotion{Enabled: true})
	shimmer, _ := ecs.GetComponent[*components.ShimmerComponent](em, id)

	shimmer.Controller.SetContainerSize(300, 40)
	shimmer.MeasuredWidth, shimmer.MeasuredHeight = 300, 40
	if shimmer.Controller.IsAnimating() {
		t.Error("减少动态效果被遵从时不应开始")
	}
	if shimmer.Visible() {
		t.Error("减少动态效果被遵从时不应可见")
	}
}

func TestShimmerEntityCountsCallbacks(t *testing.T) {
	em := ecs.NewEntityManager()
	tl := tween.NewTimeline()
	entry := testEntry("a")
	entry.Shimmer.Iterations = 1
	entry.Shimmer.Duration = 100
	entry.Shimmer.Delay = 0

	id, _ := NewShimmerEntity(em, tl, entry, nil)
	shimmer, _ := ecs.GetComponent[*components.ShimmerComponent](em, id)
	shimmer.Controller.SetContainerSize(300, 40)
	tl.Advance(200 * time.Millisecond)

	if shimmer.StartCount != 1 || shimmer.CompleteCount != 1 {
		t.Errorf("StartCount=%d CompleteCount=%d, want 1/1", shimmer.StartCount, shimmer.CompleteCount)
	}
}
