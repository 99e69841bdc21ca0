// Package tween 提供宿主侧的补间原语
//
// 给定起止值、时长和缓动曲线，补间在宿主的单调时钟上产生插值。
// Timeline 由游戏循环每个 tick 调用 Advance(dt) 推进；
// 播放控制器只负责"配置"补间，从不轮询。
//
// 所有回调都在调用 Advance/Cancel 的同一线程上执行，允许在回调中
// 重入地启动或取消其它播放。
package tween

import (
	"time"

	"github.com/decker502/shimmer/pkg/utils"
)

// Value 被补间驱动的标量值（例如微光进度 0→1）
type Value struct {
	v float64
}

// NewValue 创建初始值为 v 的 Value
func NewValue(v float64) *Value {
	return &Value{v: v}
}

// Get 返回当前值
func (val *Value) Get() float64 {
	return val.v
}

// Set 立即设置当前值
func (val *Value) Set(v float64) {
	val.v = v
}

// Animation 可被 Timeline 播放的动画描述
//
// Animation 本身是不可变的描述；每次 Play 都会通过 newRunner 生成独立的运行状态。
type Animation interface {
	newRunner() runner
}

// runner 动画的运行状态
type runner interface {
	// begin 在动画（或其所在的循环迭代）开始时调用
	begin(v *Value)
	// step 推进 dt，返回未消耗的时间和是否已完成
	step(v *Value, dt time.Duration) (rest time.Duration, done bool)
}

// Timing 在 Duration 内把值从当前值补间到 To
type Timing struct {
	To       float64
	Duration time.Duration
	Easing   utils.EasingFunc
}

func (t Timing) newRunner() runner {
	return &timingRunner{timing: t}
}

type timingRunner struct {
	timing  Timing
	from    float64
	elapsed time.Duration
}

func (r *timingRunner) begin(v *Value) {
	r.from = v.Get()
	r.elapsed = 0
}

func (r *timingRunner) step(v *Value, dt time.Duration) (time.Duration, bool) {
	if r.timing.Duration <= 0 {
		v.Set(r.timing.To)
		return dt, true
	}
	r.elapsed += dt
	if r.elapsed >= r.timing.Duration {
		rest := r.elapsed - r.timing.Duration
		r.elapsed = r.timing.Duration
		// 终点精确落在 To，不受缓动曲线浮点误差影响
		v.Set(r.timing.To)
		return rest, true
	}
	ease := r.timing.Easing
	if ease == nil {
		ease = utils.DefaultEasing
	}
	p := float64(r.elapsed) / float64(r.timing.Duration)
	v.Set(utils.Lerp(r.from, r.timing.To, ease(p)))
	return 0, false
}

// Hold 零位移片段：保持当前值 Duration 时长
// 用于两次扫光之间的静止间隔，使其与运动片段共享同一条取消路径
type Hold struct {
	Duration time.Duration
}

func (h Hold) newRunner() runner {
	return &holdRunner{hold: h}
}

type holdRunner struct {
	hold    Hold
	elapsed time.Duration
}

func (r *holdRunner) begin(*Value) {
	r.elapsed = 0
}

func (r *holdRunner) step(_ *Value, dt time.Duration) (time.Duration, bool) {
	r.elapsed += dt
	if r.elapsed >= r.hold.Duration {
		rest := r.elapsed - r.hold.Duration
		r.elapsed = r.hold.Duration
		return rest, true
	}
	return 0, false
}

type sequence []Animation

// Sequence 依次播放多个动画
func Sequence(anims ...Animation) Animation {
	return sequence(anims)
}

func (s sequence) newRunner() runner {
	children := make([]runner, len(s))
	for i, a := range s {
		children[i] = a.newRunner()
	}
	return &sequenceRunner{children: children}
}

type sequenceRunner struct {
	children []runner
	index    int
}

func (r *sequenceRunner) begin(v *Value) {
	r.index = 0
	if len(r.children) > 0 {
		r.children[0].begin(v)
	}
}

func (r *sequenceRunner) step(v *Value, dt time.Duration) (time.Duration, bool) {
	for r.index < len(r.children) {
		rest, done := r.children[r.index].step(v, dt)
		if !done {
			return 0, false
		}
		dt = rest
		r.index++
		if r.index < len(r.children) {
			r.children[r.index].begin(v)
		}
	}
	return dt, true
}

type loop struct {
	anim Animation
}

// Loop 无限重复播放 anim；每次迭代开始前把值重置为 0
// 循环永远不会自然结束，只能被取消
func Loop(anim Animation) Animation {
	return loop{anim: anim}
}

func (l loop) newRunner() runner {
	return &loopRunner{child: l.anim.newRunner()}
}

type loopRunner struct {
	child runner
}

func (r *loopRunner) begin(v *Value) {
	v.Set(0)
	r.child.begin(v)
}

func (r *loopRunner) step(v *Value, dt time.Duration) (time.Duration, bool) {
	rest, done := r.child.step(v, dt)
	// 一个 tick 内最多完成一次迭代，零时长的子动画也不会在这里空转
	if done {
		r.begin(v)
		if rest > 0 {
			r.child.step(v, rest)
		}
	}
	return 0, false
}
