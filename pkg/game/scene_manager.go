package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 按名称创建场景（演示中为布局文件路径），避免 game 包依赖 scenes 包
type SceneFactory func(name string) (Scene, error)

// SceneManager 场景管理器
// 同一时刻只有一个场景接收 Update 和 Draw
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到 scene
// 旧场景实现了 Disposable 时先释放
func (sm *SceneManager) SwitchTo(scene Scene) {
	if old, ok := sm.currentScene.(Disposable); ok && sm.currentScene != scene {
		old.Dispose()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 最近一次通过 Load 加载的场景名称
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// Load 用工厂函数创建并切换到指定场景
//
// 创建失败时保持当前场景不变。
func (sm *SceneManager) Load(name string) error {
	log.Printf("[SceneManager] 加载场景: %s", name)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	scene, err := sm.sceneFactory(name)
	if err != nil {
		return fmt.Errorf("failed to create scene %s: %w", name, err)
	}
	if scene == nil {
		return fmt.Errorf("scene factory returned nil for %s", name)
	}

	sm.SwitchTo(scene)
	sm.currentName = name
	log.Printf("[SceneManager] 成功切换到场景: %s", name)
	return nil
}

// Dispose 释放当前场景，程序退出时调用
func (sm *SceneManager) Dispose() {
	if d, ok := sm.currentScene.(Disposable); ok {
		d.Dispose()
	}
	sm.currentScene = nil
}

// Update 更新当前场景；没有活动场景时什么也不做
// deltaTime 为距上次更新经过的秒数
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景；没有活动场景时什么也不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
