package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/shimmer/pkg/components"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/ecs"
	"github.com/decker502/shimmer/pkg/entities"
	"github.com/decker502/shimmer/pkg/game"
	"github.com/decker502/shimmer/pkg/playback"
	"github.com/decker502/shimmer/pkg/systems"
)

// 时间倍率每次按键的调整系数
const timeScaleStep = 2.0

// showcaseKeys 展示场景响应的按键
var showcaseKeys = []ebiten.Key{
	ebiten.KeySpace,
	ebiten.KeyS,
	ebiten.KeyR,
	ebiten.KeyA,
	ebiten.KeyM,
	ebiten.KeyP,
	ebiten.KeyD,
	ebiten.KeyTab,
	ebiten.KeyBracketLeft,
	ebiten.KeyBracketRight,
}

var helpText = "Space 开始 | S 停止 | R 重播 | A 启用 | M 减少动态 | P 遵从偏好 | [ ] 速度 | Tab 布局 | D 调试"

// ShowcaseScene 微光展示场景
//
// 按布局文件创建一组骨架占位块，每块各自拥有独立的播放控制器。
// 键盘操作作用于全部微光；"减少动态效果"偏好保存在 SettingsManager 中，
// 控制器通过订阅它来响应变化。
type ShowcaseScene struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager

	layoutPath string
	layouts    []string
	demo       *config.DemoConfig
	background color.NRGBA

	entityManager *ecs.EntityManager
	shimmerSystem *systems.ShimmerSystem
	renderSystem  *systems.ShimmerRenderSystem

	entities []ecs.EntityID
	touchIDs []ebiten.TouchID
	disposed bool
}

// NewShowcaseScene 加载布局并创建所有微光实体
//
// 参数：
//   - sm: 场景管理器，用于 Tab 切换布局；可为 nil
//   - settings: 用户设置；为 nil 时使用不持久化的默认设置
//   - layoutPath: 布局文件路径（"data/..."）
//   - layouts: 可切换的全部布局，按 Tab 顺序
//
// 返回：
//   - *ShowcaseScene: 场景实例
//   - error: 布局加载或实体创建失败
func NewShowcaseScene(sm *game.SceneManager, settings *game.SettingsManager, layoutPath string, layouts []string) (*ShowcaseScene, error) {
	demo, err := config.LoadDemoConfig(layoutPath)
	if err != nil {
		return nil, err
	}
	background, err := config.ParseColor(demo.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if settings == nil {
		settings, _ = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	s := &ShowcaseScene{
		sceneManager:  sm,
		settings:      settings,
		layoutPath:    layoutPath,
		layouts:       layouts,
		demo:          demo,
		background:    background,
		entityManager: em,
		shimmerSystem: systems.NewShimmerSystem(em),
		renderSystem:  systems.NewShimmerRenderSystem(em),
	}
	s.shimmerSystem.SetTimeScale(settings.GetSettings().TimeScale)

	respect := settings.GetSettings().RespectReducedMotion
	for _, entry := range demo.Shimmers {
		// 全局关闭"遵从偏好"时覆盖各条目的设置
		entry.Shimmer.RespectReducedMotion = entry.Shimmer.RespectReducedMotion && respect

		id, err := entities.NewShimmerEntity(em, s.shimmerSystem.Timeline(), entry, settings)
		if err != nil {
			s.Dispose()
			return nil, err
		}
		s.entities = append(s.entities, id)
	}

	log.Printf("[ShowcaseScene] Loaded %s: %d shimmers", layoutPath, len(s.entities))
	return s, nil
}

// Demo 当前布局
func (s *ShowcaseScene) Demo() *config.DemoConfig {
	return s.demo
}

// ShimmerSystem 返回微光逻辑系统
func (s *ShowcaseScene) ShimmerSystem() *systems.ShimmerSystem {
	return s.shimmerSystem
}

// Update 处理按键并推进所有微光
func (s *ShowcaseScene) Update(deltaTime float64) {
	for _, key := range showcaseKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.HandleKey(key)
		}
	}
	// 触屏没有键盘：轻点一次等同于 R
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 && !s.disposed {
		s.HandleKey(ebiten.KeyR)
	}
	if s.disposed {
		// Tab 切换布局后本场景已被替换
		return
	}
	s.shimmerSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// HandleKey 执行单个按键对应的操作
func (s *ShowcaseScene) HandleKey(key ebiten.Key) {
	switch key {
	case ebiten.KeySpace:
		s.forEach(func(c *playback.Controller) { c.Start() })
	case ebiten.KeyS:
		s.forEach(func(c *playback.Controller) { c.Stop() })
	case ebiten.KeyR:
		s.forEach(func(c *playback.Controller) { c.Restart() })
	case ebiten.KeyA:
		s.toggleActive()
	case ebiten.KeyM:
		s.settings.SetReduceMotion(!s.settings.GetSettings().ReduceMotion)
		s.saveSettings()
	case ebiten.KeyP:
		s.toggleRespectReducedMotion()
	case ebiten.KeyD:
		s.settings.SetShowDebug(!s.settings.GetSettings().ShowDebug)
		s.saveSettings()
	case ebiten.KeyBracketLeft:
		s.scaleTime(1 / timeScaleStep)
	case ebiten.KeyBracketRight:
		s.scaleTime(timeScaleStep)
	case ebiten.KeyTab:
		s.nextLayout()
	}
}

func (s *ShowcaseScene) forEach(fn func(c *playback.Controller)) {
	s.shimmerSystem.ForEachController(func(_ ecs.EntityID, c *playback.Controller) {
		fn(c)
	})
}

// toggleActive 任意一个启用时全部停用，否则全部启用
func (s *ShowcaseScene) toggleActive() {
	anyActive := false
	for _, id := range s.entities {
		if cfg, ok := s.configOf(id); ok && cfg.Active {
			anyActive = true
			break
		}
	}
	for _, id := range s.entities {
		if cfg, ok := s.configOf(id); ok {
			cfg.Active = !anyActive
			s.shimmerSystem.Configure(id, cfg)
		}
	}
	log.Printf("[ShowcaseScene] Active = %v", !anyActive)
}

func (s *ShowcaseScene) toggleRespectReducedMotion() {
	respect := !s.settings.GetSettings().RespectReducedMotion
	s.settings.SetRespectReducedMotion(respect)
	s.saveSettings()

	for i, id := range s.entities {
		cfg, ok := s.configOf(id)
		if !ok {
			continue
		}
		cfg.RespectReducedMotion = respect && s.demo.Shimmers[i].Shimmer.RespectReducedMotion
		s.shimmerSystem.Configure(id, cfg)
	}
	log.Printf("[ShowcaseScene] RespectReducedMotion = %v", respect)
}

func (s *ShowcaseScene) scaleTime(factor float64) {
	s.settings.SetTimeScale(s.settings.GetSettings().TimeScale * factor)
	s.shimmerSystem.SetTimeScale(s.settings.GetSettings().TimeScale)
	s.saveSettings()
}

// nextLayout 通过场景管理器切换到下一个布局
func (s *ShowcaseScene) nextLayout() {
	if s.sceneManager == nil || len(s.layouts) < 2 {
		return
	}
	next := nextLayoutPath(s.layoutPath, s.layouts)
	if err := s.sceneManager.Load(next); err != nil {
		log.Printf("[ShowcaseScene] Warning: failed to switch layout: %v", err)
	}
}

// nextLayoutPath 返回 current 之后的布局，current 不在列表中时返回第一个
func nextLayoutPath(current string, layouts []string) string {
	for i, path := range layouts {
		if path == current {
			return layouts[(i+1)%len(layouts)]
		}
	}
	return layouts[0]
}

// configOf 实体当前的微光配置（副本）
func (s *ShowcaseScene) configOf(id ecs.EntityID) (config.ShimmerConfig, bool) {
	shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](s.entityManager, id)
	if !ok {
		return config.ShimmerConfig{}, false
	}
	return shimmer.Config, true
}

func (s *ShowcaseScene) saveSettings() {
	if err := s.settings.Save(); err != nil {
		log.Printf("[ShowcaseScene] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制背景、骨架占位块、微光和调试信息
func (s *ShowcaseScene) Draw(screen *ebiten.Image) {
	screen.Fill(s.background)
	s.renderSystem.Draw(screen)

	if s.settings.GetSettings().ShowDebug {
		s.drawDebug(screen)
	}
}

func (s *ShowcaseScene) drawDebug(screen *ebiten.Image) {
	st := s.settings.GetSettings()
	header := fmt.Sprintf("FPS: %.1f  quads: %d  speed: x%.2f  reduce-motion: %v  respect: %v",
		ebiten.ActualFPS(), s.renderSystem.LastQuadCount(), st.TimeScale, st.ReduceMotion, st.RespectReducedMotion)
	ebitenutil.DebugPrintAt(screen, header, 10, 10)

	y := 26
	for _, status := range s.shimmerSystem.Statuses() {
		iterations := "infinite"
		if !status.Iterations.IsInfinite() {
			iterations = fmt.Sprintf("%d", status.Iterations)
		}
		line := fmt.Sprintf("%-12s %-22s iter %d/%s  starts %d  completes %d",
			status.TestID, status.State.Phase, status.State.IterationCount, iterations,
			status.Starts, status.Completes)
		ebitenutil.DebugPrintAt(screen, line, 10, y)
		y += 16
	}

	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, helpText, 10, h-20)
}

// Dispose 卸载所有微光控制器并保存设置
func (s *ShowcaseScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, id := range s.entityManager.GetEntitiesWith() {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
	s.saveSettings()
	log.Printf("[ShowcaseScene] Disposed %s", s.layoutPath)
}
