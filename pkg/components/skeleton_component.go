package components

import "image/color"

// SkeletonComponent 骨架占位块
// 微光叠加在其上；占位块本身始终绘制，与微光是否播放无关
type SkeletonComponent struct {
	BaseColor color.NRGBA
}
