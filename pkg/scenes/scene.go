package scenes

import (
	"github.com/decker502/shimmer/pkg/game"
)

// Scene 是 game.Scene 的别名，场景实现都满足 game.Scene 接口
type Scene = game.Scene

// 编译期检查
var (
	_ Scene           = (*ShowcaseScene)(nil)
	_ game.Disposable = (*ShowcaseScene)(nil)
)
