package components

// BoundsComponent 被微光覆盖的容器区域（屏幕坐标，像素）
// 宽高即宿主测量到的容器尺寸，未测量时为 0
type BoundsComponent struct {
	X, Y          float64
	Width, Height float64
}

// Measured 容器是否已经测量到有效尺寸
func (b *BoundsComponent) Measured() bool {
	return b.Width > 0 && b.Height > 0
}

// Contains 点是否落在容器内
func (b *BoundsComponent) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}
