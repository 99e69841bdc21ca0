package components

// AccessibilityComponent 测试标识与无障碍信息
// 对效果本身透明，原样透传给宿主
type AccessibilityComponent struct {
	TestID     string
	Label      string
	Accessible bool
}
