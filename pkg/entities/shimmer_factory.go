package entities

import (
	"fmt"
	"log"

	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/components"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/ecs"
	"github.com/decker502/shimmer/pkg/playback"
)

// NewShimmerEntity 创建骨架占位块及其微光效果实体
//
// 实体创建后控制器处于 Idle：容器尺寸由 ShimmerSystem 在下一次 Update 时测量上报，
// 之后才会开始播放。
//
// 参数:
//   - em: 实体管理器
//   - animator: 宿主补间原语（通常是 ShimmerSystem 的时间线）
//   - entry: 占位块配置，微光配置会被规范化
//   - reduced: "减少动态效果"偏好来源，可为 nil
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 底色无法解析时返回错误
func NewShimmerEntity(em *ecs.EntityManager, animator playback.Animator, entry config.ShimmerEntryConfig, reduced playback.ReducedMotionSource) (ecs.EntityID, error) {
	if animator == nil {
		return 0, fmt.Errorf("shimmer %q: animator is required", entry.ID)
	}
	baseColor, err := config.ParseColor(entry.BaseColor)
	if err != nil {
		return 0, fmt.Errorf("shimmer %q: invalid base color: %w", entry.ID, err)
	}

	cfg := entry.Shimmer
	cfg.Normalize()

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.BoundsComponent{
		X:      entry.Bounds.X,
		Y:      entry.Bounds.Y,
		Width:  entry.Bounds.Width,
		Height: entry.Bounds.Height,
	})
	em.AddComponent(entityID, &components.SkeletonComponent{BaseColor: baseColor})

	testID := cfg.TestID
	if testID == "" {
		testID = entry.ID
	}
	em.AddComponent(entityID, &components.AccessibilityComponent{
		TestID:     testID,
		Label:      cfg.AccessibilityLabel,
		Accessible: cfg.Accessible,
	})

	shimmer := &components.ShimmerComponent{
		Config:    cfg,
		Progress:  tween.NewValue(0),
		PeakColor: cfg.PeakColor(),
	}
	shimmer.Controller = playback.NewController(animator, shimmer.Progress, shimmer.PlaybackOptions(testID))
	shimmer.Controller.SetActive(cfg.Active)
	shimmer.Controller.SetRespectReducedMotion(cfg.RespectReducedMotion)
	if reduced != nil {
		shimmer.Controller.AttachReducedMotion(reduced)
	}
	em.AddComponent(entityID, shimmer)

	log.Printf("[ShimmerFactory] Created shimmer entity %d (%s) at (%.0f, %.0f) %.0fx%.0f",
		entityID, testID, entry.Bounds.X, entry.Bounds.Y, entry.Bounds.Width, entry.Bounds.Height)
	return entityID, nil
}
