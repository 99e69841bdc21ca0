// Package app 提供演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/embedded"
	"github.com/decker502/shimmer/pkg/game"
	"github.com/decker502/shimmer/pkg/scenes"
	"github.com/decker502/shimmer/pkg/utils"
)

// 布局资源路径
const (
	DefaultLayout = "data/shimmer_demo.yaml"
	layoutPattern = "data/layouts/*.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Layout 启动时加载的布局，为空则使用 DefaultLayout
	Layout string
	// AppName gdata 存储使用的应用名，为空时不持久化设置
	AppName string
}

// App 是演示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	window       config.WindowConfig
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化演示程序
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings, err := newSettingsManager(cfg.AppName)
	if err != nil {
		return nil, fmt.Errorf("设置加载失败: %w", err)
	}

	layout := cfg.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	if !embedded.Exists(layout) {
		return nil, fmt.Errorf("布局文件不存在: %s", layout)
	}
	layouts := DiscoverLayouts(layout)
	log.Printf("[App] Found %d layouts", len(layouts))

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(name string) (game.Scene, error) {
		return scenes.NewShowcaseScene(sceneManager, settings, name, layouts)
	})
	if err := sceneManager.Load(layout); err != nil {
		return nil, err
	}

	a := &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}
	if s, ok := sceneManager.GetCurrentScene().(*scenes.ShowcaseScene); ok {
		a.window = s.Demo().Window
	}
	return a, nil
}

// newSettingsManager 打开 gdata 存储；失败时退回不持久化的设置
func newSettingsManager(appName string) (*game.SettingsManager, error) {
	if appName == "" {
		return game.NewSettingsManager(nil)
	}
	if err := utils.EnsureStorageDir(appName); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		return game.NewSettingsManager(nil)
	}
	return game.NewSettingsManager(gdataManager)
}

// DiscoverLayouts 返回可切换的布局列表：primary 在前，其后是 data/layouts 下的文件
func DiscoverLayouts(primary string) []string {
	layouts := []string{primary}
	matches, err := embedded.Glob(layoutPattern)
	if err != nil {
		log.Printf("[App] Warning: failed to list layouts: %v", err)
		return layouts
	}
	for _, path := range matches {
		if path != primary {
			layouts = append(layouts, path)
		}
	}
	return layouts
}

// Window 当前布局的窗口配置
func (a *App) Window() config.WindowConfig {
	return a.window
}

// Settings 用户设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.window.Width, a.window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.window.Width, a.window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端始终全屏）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，与布局文件中的窗口尺寸一致
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.window.Width, a.window.Height
}

// Close 释放当前场景（卸载所有控制器并保存设置）
func (a *App) Close() {
	a.sceneManager.Dispose()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
