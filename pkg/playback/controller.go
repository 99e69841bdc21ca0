// Package playback 微光播放控制器
//
// 控制器拥有唯一的时间线状态机：
//
//	Idle → PendingInitialDelay（InitialDelay > 0 时）→ Running → （循环 | Stopped）
//
// 声明式输入（SetActive、SetContainerSize、SetReducedMotion ...）与命令式调用
// （Start、Stop、Restart）走同一组状态转换函数，因此只有一台权威状态机。
//
// 控制器本身不做任何并行工作：所有方法和回调都在宿主的单一控制线程上执行。
// 每个异步回调都会先核对自己所属的激活代数（epoch），过期回调直接丢弃。
package playback

import (
	"log"
	"time"

	"github.com/decker502/shimmer/internal/tween"
	"github.com/decker502/shimmer/pkg/utils"
)

// Phase 播放阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingInitialDelay
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingInitialDelay:
		return "pending-initial-delay"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Infinite 无限循环的迭代次数哨兵值
const Infinite = -1

// Options 播放参数
type Options struct {
	Duration     time.Duration // 单次扫光时长
	Delay        time.Duration // 两次扫光之间的静止时长
	InitialDelay time.Duration // 首次开始前的延迟
	Iterations   int           // Infinite 或 ≥ 1
	Easing       utils.EasingFunc

	OnStart    func() // 每次激活触发一次
	OnComplete func() // 有限迭代全部完成时触发一次
}

// DefaultOptions 默认播放参数
func DefaultOptions() Options {
	return Options{
		Duration:   1500 * time.Millisecond,
		Delay:      400 * time.Millisecond,
		Iterations: Infinite,
		Easing:     utils.DefaultEasing,
	}
}

// State 控制器状态快照
type State struct {
	Phase          Phase
	IterationCount int
	Progress       float64
}

// Animator 宿主补间原语
// *tween.Timeline 实现了此接口
type Animator interface {
	Play(v *tween.Value, anim tween.Animation, done func(finished bool)) *tween.Handle
	After(d time.Duration, fn func()) *tween.Handle
}

// Controller 播放控制器
type Controller struct {
	animator Animator
	progress *tween.Value
	opts     Options

	phase          Phase
	iterationCount int
	epoch          uint64

	delayHandle *tween.Handle
	cycleHandle *tween.Handle

	// 声明式输入
	active               bool
	containerWidth       float64
	reducedMotion        bool
	respectReducedMotion bool

	// userStopped 由 Stop 置位，阻止声明式输入自动重新激活
	userStopped bool
	// completed 有限迭代完成后置位，直到下一次显式激活
	completed bool

	unsubscribe func()
	disposed    bool
}

// NewController 创建控制器
//
// 新控制器处于 Idle，active=true、respectReducedMotion=true；
// 容器宽度被测量（SetContainerSize）之后才会真正开始。
func NewController(animator Animator, progress *tween.Value, opts Options) *Controller {
	if progress == nil {
		progress = tween.NewValue(0)
	}
	return &Controller{
		animator:             animator,
		progress:             progress,
		opts:                 normalizeOptions(opts),
		active:               true,
		respectReducedMotion: true,
	}
}

// normalizeOptions 把非法参数替换为有文档的默认值，而不是报错
func normalizeOptions(opts Options) Options {
	if opts.Iterations == 0 || opts.Iterations < Infinite {
		log.Printf("[Playback] Warning: invalid iterations %d, using 1", opts.Iterations)
		opts.Iterations = 1
	}
	if opts.Duration < 0 {
		opts.Duration = 0
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.InitialDelay < 0 {
		opts.InitialDelay = 0
	}
	if opts.Easing == nil {
		opts.Easing = utils.DefaultEasing
	}
	return opts
}

// --- 查询 ---

// IsAnimating 仅当处于 PendingInitialDelay 或 Running 时为 true
func (c *Controller) IsAnimating() bool {
	return c.phase == PhasePendingInitialDelay || c.phase == PhaseRunning
}

// State 返回当前状态快照
func (c *Controller) State() State {
	return State{
		Phase:          c.phase,
		IterationCount: c.iterationCount,
		Progress:       c.progress.Get(),
	}
}

// Progress 返回进度值（由补间原语驱动）
func (c *Controller) Progress() *tween.Value {
	return c.progress
}

// Options 返回当前播放参数
func (c *Controller) Options() Options {
	return c.opts
}

// CanRun 激活的前置条件是否满足
func (c *Controller) CanRun() bool {
	if c.disposed || !c.active || !(c.containerWidth > 0) {
		return false
	}
	return !(c.reducedMotion && c.respectReducedMotion)
}

// --- 命令式控制 ---

// Start 开始播放；已在播放时为空操作
// 前置条件不满足时保持 Idle，条件满足后自动开始
func (c *Controller) Start() {
	if c.disposed || c.IsAnimating() {
		return
	}
	c.userStopped = false
	c.completed = false
	c.reconcile()
}

// Stop 中断播放，幂等
func (c *Controller) Stop() {
	c.userStopped = true
	c.interrupt()
}

// Restart 等价于 Stop 后立即从 Idle 重新进入；进度和迭代计数先归零
func (c *Controller) Restart() {
	if c.disposed {
		return
	}
	c.interrupt()
	c.progress.Set(0)
	c.iterationCount = 0
	c.userStopped = false
	c.completed = false
	c.phase = PhaseIdle
	c.reconcile()
}

// Dispose 卸载：取消所有计时器和补间并退订减少动态效果通知
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.interrupt()
	c.detachReducedMotion()
	c.disposed = true
}

// --- 声明式输入 ---

// SetOptions 更新播放参数
//
// 时长、间隔、初始延迟或迭代次数变化时，正在进行的播放会重新开始，
// 已经自然完成的有限播放按新参数再播放一次（用户 Stop 过的除外）；
// 缓动曲线和回调在每个周期开始时读取，从下一个周期起生效。
func (c *Controller) SetOptions(opts Options) {
	opts = normalizeOptions(opts)
	timingChanged := opts.Duration != c.opts.Duration ||
		opts.Delay != c.opts.Delay ||
		opts.InitialDelay != c.opts.InitialDelay ||
		opts.Iterations != c.opts.Iterations
	c.opts = opts
	if !timingChanged {
		return
	}
	if c.IsAnimating() {
		c.Restart()
		return
	}
	if c.completed && !c.userStopped {
		c.completed = false
		c.reconcile()
	}
}

// SetActive 对应 active 属性；false→true 视为一次新的激活
func (c *Controller) SetActive(active bool) {
	if active == c.active {
		return
	}
	c.active = active
	if !active {
		c.interrupt()
		return
	}
	c.completed = false
	c.userStopped = false
	c.reconcile()
}

// SetContainerSize 容器测量结果
func (c *Controller) SetContainerSize(width, height float64) {
	c.containerWidth = width
	if !(width > 0) || !(height > 0) {
		c.interrupt()
		return
	}
	c.reconcile()
}

// SetReducedMotion 系统"减少动态效果"偏好
func (c *Controller) SetReducedMotion(reduced bool) {
	if reduced == c.reducedMotion {
		return
	}
	c.reducedMotion = reduced
	c.reconcileOrInterrupt()
}

// SetRespectReducedMotion 是否遵从减少动态效果偏好
func (c *Controller) SetRespectReducedMotion(respect bool) {
	if respect == c.respectReducedMotion {
		return
	}
	c.respectReducedMotion = respect
	c.reconcileOrInterrupt()
}

// ReducedMotionInEffect 减少动态效果是否正在生效（被遵从的前提下）
func (c *Controller) ReducedMotionInEffect() bool {
	return c.reducedMotion && c.respectReducedMotion
}

func (c *Controller) reconcileOrInterrupt() {
	if c.ReducedMotionInEffect() {
		c.interrupt()
		return
	}
	c.reconcile()
}

// --- 状态转换 ---

// reconcile 前置条件满足且没有被用户停止、没有完成时，从 Idle/Stopped 激活
func (c *Controller) reconcile() {
	if c.IsAnimating() || c.userStopped || c.completed || !c.CanRun() {
		return
	}
	c.activate()
}

func (c *Controller) activate() {
	c.epoch++
	c.phase = PhaseIdle

	if c.opts.InitialDelay > 0 {
		epoch := c.epoch
		c.phase = PhasePendingInitialDelay
		c.delayHandle = c.animator.After(c.opts.InitialDelay, func() {
			if epoch != c.epoch || c.phase != PhasePendingInitialDelay {
				return
			}
			c.delayHandle = nil
			c.enterRunning()
		})
		return
	}
	c.enterRunning()
}

func (c *Controller) enterRunning() {
	epoch := c.epoch
	c.phase = PhaseRunning
	c.progress.Set(0)
	c.iterationCount = 0

	if c.opts.OnStart != nil {
		c.opts.OnStart()
	}
	// OnStart 中可能调用了 Stop/Restart
	if epoch != c.epoch || c.phase != PhaseRunning {
		return
	}

	if c.opts.Iterations == Infinite {
		c.cycleHandle = c.animator.Play(c.progress, tween.Loop(c.cycleAnimation()), nil)
		return
	}
	c.runCycle(epoch)
}

// cycleAnimation 一个周期：进度 0→1，然后静止 Delay
func (c *Controller) cycleAnimation() tween.Animation {
	return tween.Sequence(
		tween.Timing{To: 1, Duration: c.opts.Duration, Easing: c.opts.Easing},
		tween.Hold{Duration: c.opts.Delay},
	)
}

func (c *Controller) runCycle(epoch uint64) {
	c.progress.Set(0)
	c.cycleHandle = c.animator.Play(c.progress, c.cycleAnimation(), func(finished bool) {
		c.onCycleDone(epoch, finished)
	})
}

func (c *Controller) onCycleDone(epoch uint64, finished bool) {
	// 被取消的周期或过期的激活不计数
	if !finished || epoch != c.epoch || c.phase != PhaseRunning {
		return
	}
	c.cycleHandle = nil
	c.iterationCount++
	if c.iterationCount < c.opts.Iterations {
		c.runCycle(epoch)
		return
	}

	c.phase = PhaseStopped
	c.completed = true
	log.Printf("[Playback] Completed %d iterations", c.iterationCount)
	if c.opts.OnComplete != nil {
		c.opts.OnComplete()
	}
}

// interrupt 取消所有待定计时器和补间，转入 Stopped；可重复调用
func (c *Controller) interrupt() {
	wasAnimating := c.IsAnimating()
	c.epoch++

	delay, cycle := c.delayHandle, c.cycleHandle
	c.delayHandle, c.cycleHandle = nil, nil
	delay.Cancel()
	cycle.Cancel()

	if wasAnimating {
		c.phase = PhaseStopped
	}
}
