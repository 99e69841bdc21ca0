package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可独立更新和绘制的场景（如微光展示页）
type Scene interface {
	// Update 按经过的时间更新场景逻辑
	// deltaTime 为距上次更新经过的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Disposable 可选接口：场景被替换或程序退出时释放资源
//
// 微光场景在这里卸载所有控制器（取消计时器、退订偏好）并保存用户设置。
type Disposable interface {
	Dispose()
}
