package geometry

// Cache 以 Key 为键的单条目缓存
//
// 每帧都会询问几何，但只有容器尺寸、角度、宽度、模式、锚点或方向改变时才重新计算。
type Cache struct {
	key      Key
	geometry *Geometry
	valid    bool
	computed int
}

// Get 返回 key 对应的几何；key 与上次相同则直接复用
func (c *Cache) Get(key Key) *Geometry {
	if c.valid && c.key == key {
		return c.geometry
	}
	c.key = key
	c.geometry = Compose(key)
	c.valid = true
	c.computed++
	return c.geometry
}

// Invalidate 丢弃缓存
func (c *Cache) Invalidate() {
	c.valid = false
	c.geometry = nil
}

// Computations 实际计算的次数
func (c *Cache) Computations() int {
	return c.computed
}
