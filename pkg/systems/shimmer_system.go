package systems

import (
	"log"
	"math"
	"time"

	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/components"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/ecs"
	"github.com/decker502/shimmer/pkg/playback"
)

// ShimmerSystem 微光逻辑系统
//
// 职责：
//   - 持有宿主时间线，每个 tick 推进所有微光的补间和计时器
//   - 容器尺寸变化时向控制器上报测量结果
//   - 实体被删除时卸载控制器（取消计时器、退订偏好）
//
// 每个实体的控制器相互独立，时间线只是它们共用的时钟。
type ShimmerSystem struct {
	entityManager *ecs.EntityManager
	timeline      *tween.Timeline
	timeScale     float64
}

// NewShimmerSystem 创建微光逻辑系统
func NewShimmerSystem(em *ecs.EntityManager) *ShimmerSystem {
	s := &ShimmerSystem{
		entityManager: em,
		timeline:      tween.NewTimeline(),
		timeScale:     1.0,
	}
	em.OnDestroy(s.disposeEntity)
	return s
}

// Timeline 返回宿主时间线，用于创建微光实体
func (s *ShimmerSystem) Timeline() *tween.Timeline {
	return s.timeline
}

// SetTimeScale 设置时间线推进倍率，非正数视为 1
func (s *ShimmerSystem) SetTimeScale(scale float64) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1.0
	}
	s.timeScale = scale
}

// Update 上报测量结果并推进时间线
// deltaTime 单位为秒
func (s *ShimmerSystem) Update(deltaTime float64) {
	s.measure()

	if deltaTime <= 0 || math.IsNaN(deltaTime) {
		return
	}
	dt := time.Duration(deltaTime * s.timeScale * float64(time.Second))
	s.timeline.Advance(dt)
}

// measure 容器尺寸变化时通知控制器，等价于宿主的布局测量回调
func (s *ShimmerSystem) measure() {
	entities := ecs.GetEntitiesWith2[*components.BoundsComponent, *components.ShimmerComponent](s.entityManager)
	for _, id := range entities {
		bounds, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		shimmer, _ := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)

		if bounds.Width == shimmer.MeasuredWidth && bounds.Height == shimmer.MeasuredHeight {
			continue
		}
		shimmer.MeasuredWidth = bounds.Width
		shimmer.MeasuredHeight = bounds.Height
		shimmer.Controller.SetContainerSize(bounds.Width, bounds.Height)
	}
}

// Configure 替换实体的微光配置
//
// 时长、间隔、初始延迟或迭代次数变化会重新开始正在进行的播放；
// 几何相关字段变化只会让下一帧重新计算几何。
func (s *ShimmerSystem) Configure(id ecs.EntityID, cfg config.ShimmerConfig) bool {
	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
	if !ok {
		return false
	}
	cfg.Normalize()
	shimmer.Config = cfg
	shimmer.PeakColor = cfg.PeakColor()

	// 先应用会停止播放的输入，再更新参数，最后应用会开始播放的输入，
	// 保证一次 Configure 最多触发一次 OnStart
	c := shimmer.Controller
	if !cfg.Active {
		c.SetActive(false)
	}
	if cfg.RespectReducedMotion {
		c.SetRespectReducedMotion(true)
	}
	c.SetOptions(shimmer.PlaybackOptions(s.nameOf(id)))
	c.SetRespectReducedMotion(cfg.RespectReducedMotion)
	c.SetActive(cfg.Active)
	return true
}

// Controller 返回实体的播放控制器，用于 start/stop/restart
func (s *ShimmerSystem) Controller(id ecs.EntityID) (*playback.Controller, bool) {
	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
	if !ok {
		return nil, false
	}
	return shimmer.Controller, true
}

// Find 按测试标识查找实体
func (s *ShimmerSystem) Find(testID string) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith2[*components.AccessibilityComponent, *components.ShimmerComponent](s.entityManager)
	for _, id := range entities {
		a11y, _ := ecs.GetComponent[*components.AccessibilityComponent](s.entityManager, id)
		if a11y.TestID == testID {
			return id, true
		}
	}
	return 0, false
}

// ShimmerStatus 单个微光的状态快照，用于调试信息
type ShimmerStatus struct {
	ID         ecs.EntityID
	TestID     string
	State      playback.State
	Visible    bool
	Starts     int
	Completes  int
	Iterations config.Iterations
}

// Statuses 返回所有微光的状态快照（按实体ID升序）
func (s *ShimmerSystem) Statuses() []ShimmerStatus {
	entities := ecs.GetEntitiesWith1[*components.ShimmerComponent](s.entityManager)
	result := make([]ShimmerStatus, 0, len(entities))
	for _, id := range entities {
		shimmer, _ := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
		result = append(result, ShimmerStatus{
			ID:         id,
			TestID:     s.nameOf(id),
			State:      shimmer.Controller.State(),
			Visible:    shimmer.Visible(),
			Starts:     shimmer.StartCount,
			Completes:  shimmer.CompleteCount,
			Iterations: shimmer.Config.Iterations,
		})
	}
	return result
}

// ForEachController 对所有微光控制器执行 fn（按实体ID升序）
func (s *ShimmerSystem) ForEachController(fn func(id ecs.EntityID, c *playback.Controller)) {
	for _, id := range ecs.GetEntitiesWith1[*components.ShimmerComponent](s.entityManager) {
		shimmer, _ := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
		fn(id, shimmer.Controller)
	}
}

func (s *ShimmerSystem) nameOf(id ecs.EntityID) string {
	if a11y, ok := ecs.GetComponent[*components.AccessibilityComponent](s.entityManager, id); ok && a11y.TestID != "" {
		return a11y.TestID
	}
	return ""
}

// disposeEntity 实体删除回调
func (s *ShimmerSystem) disposeEntity(id ecs.EntityID) {
	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
	if !ok || shimmer.Controller == nil {
		return
	}
	shimmer.Controller.Dispose()
	log.Printf("[ShimmerSystem] Disposed shimmer entity %d", id)
}
