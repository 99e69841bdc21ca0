package tween

import "time"

// Handle 正在进行的播放或计时器的可取消令牌
type Handle struct {
	timeline *Timeline
	entry    *entry
}

// Cancel 取消播放或计时器
//
// 播放被取消时 done 回调会以 finished=false 调用一次；计时器被取消后永不触发。
// 重复调用、对已结束的句柄调用、对 nil 句柄调用都是空操作。
func (h *Handle) Cancel() {
	if h == nil || h.entry == nil || h.entry.finished {
		return
	}
	e := h.entry
	e.finished = true
	h.timeline.remove(e)
	if e.done != nil {
		e.done(false)
	}
}

// Done 播放或计时器是否已经结束（完成或被取消）
func (h *Handle) Done() bool {
	return h == nil || h.entry == nil || h.entry.finished
}

type entry struct {
	// 播放
	value  *Value
	runner runner
	done   func(finished bool)

	// 计时器
	timer     bool
	remaining time.Duration
	fire      func()

	finished bool
}

// Timeline 宿主动画时钟
//
// 由游戏循环每个 tick 调用 Advance(dt)。Timeline 不是并发安全的，
// 与 ebiten 的 Update 一样只在单一控制线程上使用。
type Timeline struct {
	entries []*entry
	now     time.Duration

	// 完成回调执行期间新启动的播放和计时器，回调返回后用剩余时间推进
	capturing int
	started   []*entry
}

// NewTimeline 创建空的 Timeline
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Play 立即开始播放 anim，驱动 v
//
// 开始时不会推进时间；第一次插值发生在下一次 Advance，
// 在完成回调中启动时除外（见 Advance）。
// done 在动画自然结束时以 finished=true 调用，被取消时以 finished=false 调用。
func (tl *Timeline) Play(v *Value, anim Animation, done func(finished bool)) *Handle {
	r := anim.newRunner()
	r.begin(v)
	e := &entry{value: v, runner: r, done: done}
	tl.add(e)
	return &Handle{timeline: tl, entry: e}
}

// After 在 d 之后调用 fn 一次
func (tl *Timeline) After(d time.Duration, fn func()) *Handle {
	e := &entry{timer: true, remaining: d, fire: fn}
	tl.add(e)
	return &Handle{timeline: tl, entry: e}
}

// Advance 推进时钟 dt，按启动顺序驱动所有播放和计时器
//
// 播放或计时器在本次 Advance 中结束时，超出的时间交给它的回调里新启动的
// 播放和计时器，因此首尾相接的周期不会累积误差。其他新启动的播放从下一次
// Advance 开始计时。
func (tl *Timeline) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	tl.now += dt

	snapshot := make([]*entry, len(tl.entries))
	copy(snapshot, tl.entries)

	for _, e := range snapshot {
		tl.step(e, dt)
	}
}

// step 推进单个条目；结束时执行回调，并用剩余时间推进回调中新启动的条目
func (tl *Timeline) step(e *entry, dt time.Duration) {
	if e.finished {
		return
	}

	var rest time.Duration
	if e.timer {
		e.remaining -= dt
		if e.remaining > 0 {
			return
		}
		rest = -e.remaining
	} else {
		r, done := e.runner.step(e.value, dt)
		if !done {
			return
		}
		rest = r
	}
	e.finished = true
	tl.remove(e)

	outer := tl.started
	tl.started = nil
	tl.capturing++
	if e.timer {
		if e.fire != nil {
			e.fire()
		}
	} else if e.done != nil {
		e.done(true)
	}
	tl.capturing--
	started := tl.started
	tl.started = outer

	// 本次没有消耗时间的条目（零时长）不转交剩余时间，避免在同一 tick 内空转
	if rest <= 0 || rest >= dt {
		return
	}
	for _, next := range started {
		tl.step(next, rest)
	}
}

// Now 自创建以来累计推进的时间
func (tl *Timeline) Now() time.Duration {
	return tl.now
}

// Active 仍在进行中的播放和计时器数量（用于检测句柄泄漏）
func (tl *Timeline) Active() int {
	return len(tl.entries)
}

func (tl *Timeline) add(e *entry) {
	tl.entries = append(tl.entries, e)
	if tl.capturing > 0 {
		tl.started = append(tl.started, e)
	}
}

func (tl *Timeline) remove(target *entry) {
	for i, e := range tl.entries {
		if e == target {
			tl.entries = append(tl.entries[:i], tl.entries[i+1:]...)
			return
		}
	}
}
