// Package export 离线导出微光帧序列
//
// 导出流程分两步：
//  1. Simulate 在独立的时间线上驱动真实的播放控制器，按固定帧率采样进度
//  2. Export 把每个采样并行光栅化并写成编号的 PNG 文件
//
// 采样是串行的（控制器只在单一控制线程上运行），渲染和编码才并行。
package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/shimmer/internal/geometry"
	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/config"
	"github.com/decker502/shimmer/pkg/playback"
	"github.com/decker502/shimmer/pkg/raster"
)

// 默认参数
const (
	DefaultFPS    = 60
	DefaultPrefix = "shimmer_"

	// 单次导出的帧数上限，防止错误的时长参数写爆磁盘
	MaxFrames = 36000
)

// Options 导出参数
type Options struct {
	Config    config.ShimmerConfig
	Width     int // 容器宽度（像素）
	Height    int // 容器高度（像素）
	BaseColor color.NRGBA

	FPS int
	// Duration 采样总时长；为 0 时使用一个完整周期
	// （有限迭代时为全部迭代）加上初始延迟
	Duration time.Duration
	// Workers 并行渲染的 goroutine 数量；为 0 时使用逻辑 CPU 数
	Workers int

	OutputDir string
	Prefix    string

	// ReducedMotion 模拟系统"减少动态效果"偏好
	ReducedMotion bool
}

// Frame 单帧采样结果
type Frame struct {
	Index    int
	Time     time.Duration
	Progress float64
	Phase    playback.Phase
	Visible  bool
}

// Result 导出结果
type Result struct {
	Frames  []Frame
	Files   []string
	Workers int
}

// withDefaults 填充默认值并规范化微光配置
func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.BaseColor == (color.NRGBA{}) {
		o.BaseColor, _ = config.ParseColor(config.DefaultBaseColor)
	}
	o.Config.Normalize()
	if o.Duration <= 0 {
		o.Duration = naturalDuration(o.Config)
	}
	return o
}

// naturalDuration 无限循环时为一个周期，有限迭代时为全部迭代
func naturalDuration(cfg config.ShimmerConfig) time.Duration {
	opts := cfg.PlaybackOptions()
	cycles := 1
	if !cfg.Iterations.IsInfinite() {
		cycles = int(cfg.Iterations)
	}
	return opts.InitialDelay + time.Duration(cycles)*(opts.Duration+opts.Delay)
}

// FrameCount 给定时长和帧率下的帧数（至少 1 帧，含起点）
func FrameCount(d time.Duration, fps int) int {
	if fps <= 0 || d <= 0 {
		return 1
	}
	n := int(math.Ceil(d.Seconds()*float64(fps))) + 1
	if n > MaxFrames {
		n = MaxFrames
	}
	return n
}

// Simulate 用真实的播放控制器生成进度时间线
//
// 控制器挂在一条私有时间线上，按 1/FPS 的步长推进；每一帧在推进之前采样，
// 因此第 0 帧总是 t=0 时的状态。
//
// 返回：
//   - []Frame: 按时间顺序的采样
//   - error: 尺寸非法时返回错误
func Simulate(opts Options) ([]Frame, error) {
	opts = opts.withDefaults()
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	cfg := opts.Config

	tl := tween.NewTimeline()
	progress := tween.NewValue(0)
	c := playback.NewController(tl, progress, cfg.PlaybackOptions())
	defer c.Dispose()

	c.SetRespectReducedMotion(cfg.RespectReducedMotion)
	c.SetActive(cfg.Active)
	c.AttachReducedMotion(playback.StaticReducedMotion{Enabled: opts.ReducedMotion})
	c.SetContainerSize(float64(opts.Width), float64(opts.Height))

	visible := cfg.Active && !c.ReducedMotionInEffect()

	n := FrameCount(opts.Duration, opts.FPS)
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		// 累计目标时间，避免逐帧取整误差
		target := time.Duration(i) * time.Second / time.Duration(opts.FPS)
		if dt := target - tl.Now(); dt > 0 {
			tl.Advance(dt)
		}
		state := c.State()
		frames = append(frames, Frame{
			Index:    i,
			Time:     target,
			Progress: state.Progress,
			Phase:    state.Phase,
			Visible:  visible,
		})
	}
	return frames, nil
}

// DefaultWorkers 逻辑 CPU 数，查询失败时退回 runtime.NumCPU
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		log.Printf("[Export] Warning: cpu.Counts failed: %v (using runtime.NumCPU)", err)
		return runtime.NumCPU()
	}
	return n
}

// Export 模拟并把帧写到 OutputDir
//
// 每帧一个 PNG 文件，文件名为 Prefix + 5 位帧序号。任意一帧失败会取消其余帧，
// ctx 取消时同样提前返回。
func Export(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	frames, err := Simulate(opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > len(frames) {
		workers = len(frames)
	}

	cfg := opts.Config
	// 尺寸和配置在整次导出中不变，几何只计算一次，各 goroutine 只读共享
	g := geometry.Compose(cfg.GeometryKey(float64(opts.Width), float64(opts.Height)))
	peak := cfg.PeakColor()
	alpha := float64(peak.A) / 255

	renderers := sync.Pool{
		New: func() interface{} {
			return raster.NewRenderer(opts.Width, opts.Height)
		},
	}

	files := make([]string, len(frames))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	log.Printf("[Export] Rendering %d frames (%dx%d @ %d FPS) with %d workers",
		len(frames), opts.Width, opts.Height, opts.FPS, workers)

	for _, f := range frames {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := renderers.Get().(*raster.Renderer)
			defer renderers.Put(r)

			var quads []geometry.Quad
			if f.Visible && g != nil {
				quads = g.Quads(f.Progress, alpha)
			}
			img := r.NewFrame()
			r.Render(img, opts.BaseColor, quads, peak)

			path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s%05d.png", opts.Prefix, f.Index))
			if err := writePNG(path, img); err != nil {
				return fmt.Errorf("frame %d: %w", f.Index, err)
			}
			files[f.Index] = path
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[Export] Wrote %d frames to %s", len(files), opts.OutputDir)
	return &Result{Frames: frames, Files: files, Workers: workers}, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
