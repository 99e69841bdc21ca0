package playback

import "log"

// ReducedMotionSource 系统级"减少动态效果"偏好的可订阅来源
//
// IsReduceMotionEnabled 返回当前值；查询失败（平台不支持等）时返回 error。
// Subscribe 注册变化通知，返回退订函数。
type ReducedMotionSource interface {
	IsReduceMotionEnabled() (bool, error)
	Subscribe(fn func(enabled bool)) (unsubscribe func())
}

// AttachReducedMotion 读取初始值并订阅后续变化
//
// 查询失败视为"未知"，按"未开启减少动态效果"处理：效果宁可继续播放，也不静默消失。
// 重复调用会先退订旧来源。
func (c *Controller) AttachReducedMotion(source ReducedMotionSource) {
	c.detachReducedMotion()
	if source == nil || c.disposed {
		return
	}

	enabled, err := source.IsReduceMotionEnabled()
	if err != nil {
		log.Printf("[Playback] Reduced motion query failed: %v (assuming disabled)", err)
		enabled = false
	}
	c.SetReducedMotion(enabled)

	c.unsubscribe = source.Subscribe(func(enabled bool) {
		if c.disposed {
			return
		}
		c.SetReducedMotion(enabled)
	})
}

func (c *Controller) detachReducedMotion() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// StaticReducedMotion 固定值的来源，适用于不支持该偏好的平台和测试
type StaticReducedMotion struct {
	Enabled bool
	Err     error
}

// IsReduceMotionEnabled 实现 ReducedMotionSource
func (s StaticReducedMotion) IsReduceMotionEnabled() (bool, error) {
	return s.Enabled, s.Err
}

// Subscribe 实现 ReducedMotionSource；固定值永不变化
func (s StaticReducedMotion) Subscribe(func(bool)) func() {
	return func() {}
}
