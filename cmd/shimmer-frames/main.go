// cmd/shimmer-frames/main.go
// 离线导出微光帧序列（PNG）
//
// 用法：
//
//	go run ./cmd/shimmer-frames --width=320 --height=48 --out=frames
//	go run ./cmd/shimmer-frames --config=shimmer.yaml --fps=30 --duration=4s
//
// 导出的帧可以用 ffmpeg 合成视频：
//
//	ffmpeg -framerate 60 -i frames/shimmer_%05d.png shimmer.mp4
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/export"
	"github.com/decker502/shimmer/pkg/game"
)

var (
	configPath = flag.String("config", "", "微光配置 YAML 文件（为空则使用默认值）")
	widthPtr   = flag.Int("width", 320, "容器宽度")
	heightPtr  = flag.Int("height", 48, "容器高度")
	basePtr    = flag.String("base", config.DefaultBaseColor, "骨架占位块底色")
	fpsPtr     = flag.Int("fps", export.DefaultFPS, "帧率")
	duration   = flag.Duration("duration", 0, "导出时长（0 为一个完整周期）")
	workersPtr = flag.Int("workers", 0, "并行渲染数量（0 为逻辑 CPU 数）")
	outPtr     = flag.String("out", "frames", "输出目录")
	prefixPtr  = flag.String("prefix", export.DefaultPrefix, "文件名前缀")
	verbose    = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatalf("%v", err)
	}
	base, err := config.ParseColor(*basePtr)
	if err != nil {
		fatalf("invalid --base: %v", err)
	}

	reduced, err := (game.EnvReducedMotion{}).IsReduceMotionEnabled()
	if err != nil {
		// 无法解析时按未开启处理
		log.Printf("[Main] Warning: %v", err)
		reduced = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := export.Export(ctx, export.Options{
		Config:        *cfg,
		Width:         *widthPtr,
		Height:        *heightPtr,
		BaseColor:     base,
		FPS:           *fpsPtr,
		Duration:      *duration,
		Workers:       *workersPtr,
		OutputDir:     *outPtr,
		Prefix:        *prefixPtr,
		ReducedMotion: reduced,
	})
	if err != nil {
		fatalf("export failed: %v", err)
	}

	fmt.Printf("[+] %d frames -> %s (%d workers, %v)\n",
		len(res.Files), *outPtr, res.Workers, time.Since(start).Round(time.Millisecond))
}

// loadConfig 从文件加载微光配置；path 为空时使用默认配置
func loadConfig(path string) (*config.ShimmerConfig, error) {
	if path == "" {
		cfg := config.DefaultShimmerConfig()
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return config.LoadShimmerConfig(data)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[-] "+format+"\n", args...)
	os.Exit(1)
}
