//go:build !mobile

package utils

import "os"

// EnvMobileEmulate 强制按移动端运行的环境变量（本地调试触屏操作）
const EnvMobileEmulate = "SHIMMER_MOBILE_EMULATE"

// IsMobile 是否在移动设备上运行
// 桌面端编译时只有设置了 SHIMMER_MOBILE_EMULATE=1 才返回 true
func IsMobile() bool {
	return os.Getenv(EnvMobileEmulate) == "1"
}
