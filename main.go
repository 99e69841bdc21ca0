// Shimmer 演示程序
//
// 用法：
//
//	go run . --verbose
//	go run . --layout=data/layouts/list.yaml
//
// 设置 SHIMMER_REDUCE_MOTION=1 可在启动时开启"减少动态效果"。
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/decker502/shimmer/pkg/app"
	"github.com/decker502/shimmer/pkg/embedded"
	"github.com/decker502/shimmer/pkg/game"
)

var (
	verbose = flag.Bool("verbose", false, "详细日志")
	layout  = flag.String("layout", app.DefaultLayout, "启动时加载的布局文件")
)

func main() {
	flag.Parse()

	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}

	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Layout:  *layout,
		AppName: "shimmer",
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer a.Close()

	// 环境变量优先于保存的设置，但只在本次运行中生效
	if enabled, err := (game.EnvReducedMotion{}).IsReduceMotionEnabled(); err != nil {
		log.Printf("[Main] Warning: %v", err)
	} else if enabled {
		a.Settings().OverrideReduceMotion(true)
	}

	window := a.Window()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
