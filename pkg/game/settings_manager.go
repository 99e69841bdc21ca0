package game

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings 全局用户偏好
type Settings struct {
	// 动态效果
	ReduceMotion         bool    `yaml:"reduceMotion"`         // "减少动态效果"偏好
	RespectReducedMotion bool    `yaml:"respectReducedMotion"` // 演示中是否遵从该偏好
	TimeScale            float64 `yaml:"timeScale"`            // 时间线推进倍率 MinTimeScale ~ MaxTimeScale

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowDebug  bool `yaml:"showDebug"`  // 是否显示调试信息
}

// 时间倍率范围
const (
	MinTimeScale = 0.25
	MaxTimeScale = 4.0
)

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		ReduceMotion:         false,
		RespectReducedMotion: true,
		TimeScale:            1.0,
		Fullscreen:           false,
		ShowDebug:            true,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理，同时作为"减少动态效果"偏好的来源
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *Settings      // 当前设置

	listeners map[int]func(bool)
	nextID    int

	// 内存中的"减少动态效果"覆盖（来自环境变量），不写入存储
	overridden         bool
	overrideValue      bool
	storedReduceMotion bool
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		listeners:    make(map[int]func(bool)),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置。
// 加载后 ReduceMotion 与之前不同时通知订阅者。
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	before := sm.settings.ReduceMotion
	err := sm.load()
	sm.settings.TimeScale = clampTimeScale(sm.settings.TimeScale)
	if sm.overridden {
		sm.storedReduceMotion = sm.settings.ReduceMotion
		sm.settings.ReduceMotion = sm.overrideValue
	}
	if sm.settings.ReduceMotion != before {
		sm.notify(sm.settings.ReduceMotion)
	}
	return err
}

func (sm *SettingsManager) load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上解析，旧版本文件缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	stored := *sm.settings
	if sm.overridden {
		stored.ReduceMotion = sm.storedReduceMotion
	}
	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetReduceMotion 设置"减少动态效果"偏好，值变化时通知订阅者
// 用户的显式设置会取消 OverrideReduceMotion 的覆盖
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetReduceMotion(enabled bool) {
	sm.overridden = false
	sm.applyReduceMotion(enabled)
}

// OverrideReduceMotion 临时覆盖"减少动态效果"偏好，例如来自环境变量
//
// 覆盖只在本进程内有效：Save() 写入的仍是覆盖前保存的值。
func (sm *SettingsManager) OverrideReduceMotion(enabled bool) {
	if !sm.overridden {
		sm.storedReduceMotion = sm.settings.ReduceMotion
		sm.overridden = true
	}
	sm.overrideValue = enabled
	sm.applyReduceMotion(enabled)
}

func (sm *SettingsManager) applyReduceMotion(enabled bool) {
	if sm.settings.ReduceMotion == enabled {
		return
	}
	sm.settings.ReduceMotion = enabled
	sm.notify(enabled)
}

// SetRespectReducedMotion 设置演示是否遵从"减少动态效果"
func (sm *SettingsManager) SetRespectReducedMotion(respect bool) {
	sm.settings.RespectReducedMotion = respect
}

// SetTimeScale 设置时间倍率，限制在 MinTimeScale ~ MaxTimeScale
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowDebug 设置是否显示调试信息
func (sm *SettingsManager) SetShowDebug(show bool) {
	sm.settings.ShowDebug = show
}

// IsReduceMotionEnabled 实现 playback.ReducedMotionSource
func (sm *SettingsManager) IsReduceMotionEnabled() (bool, error) {
	return sm.settings.ReduceMotion, nil
}

// Subscribe 实现 playback.ReducedMotionSource
// 返回的退订函数可重复调用
func (sm *SettingsManager) Subscribe(fn func(enabled bool)) func() {
	id := sm.nextID
	sm.nextID++
	sm.listeners[id] = fn
	return func() {
		delete(sm.listeners, id)
	}
}

// SubscriberCount 当前订阅者数量
func (sm *SettingsManager) SubscriberCount() int {
	return len(sm.listeners)
}

func (sm *SettingsManager) notify(enabled bool) {
	// 回调中可能退订，先复制
	fns := make([]func(bool), 0, len(sm.listeners))
	for _, fn := range sm.listeners {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(enabled)
	}
}

// clampTimeScale 将时间倍率限制在合法范围内，非法值回到 1
func clampTimeScale(scale float64) float64 {
	if !(scale > 0) {
		return 1.0
	}
	if scale < MinTimeScale {
		return MinTimeScale
	}
	if scale > MaxTimeScale {
		return MaxTimeScale
	}
	return scale
}

// EnvReduceMotionVar 覆盖"减少动态效果"偏好的环境变量
const EnvReduceMotionVar = "SHIMMER_REDUCE_MOTION"

// EnvReducedMotion 从环境变量读取"减少动态效果"偏好
//
// 未设置时返回 false；值无法解析时返回错误（调用方按"未知"处理）。
// 环境变量在进程内不会变化，Subscribe 不会触发回调。
type EnvReducedMotion struct {
	// Lookup 默认为 os.LookupEnv
	Lookup func(key string) (string, bool)
}

// IsReduceMotionEnabled 实现 playback.ReducedMotionSource
func (e EnvReducedMotion) IsReduceMotionEnabled() (bool, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(EnvReduceMotionVar)
	if !ok || strings.TrimSpace(value) == "" {
		return false, nil
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", EnvReduceMotionVar, value, err)
	}
	return enabled, nil
}

// Subscribe 实现 playback.ReducedMotionSource
func (e EnvReducedMotion) Subscribe(func(bool)) func() {
	return func() {}
}
