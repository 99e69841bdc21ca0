//go:build !mobile

// 普通构建时 mobile 包只保留 Dummy，
// 这样 go build ./... 不需要 mobile/data 目录也能通过。
package mobile

// Dummy 占位导出函数
func Dummy() {}
