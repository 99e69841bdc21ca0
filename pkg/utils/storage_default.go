//go:build !android

package utils

// EnsureStorageDir 非 Android 平台无需处理，gdata 会自行创建目录
func EnsureStorageDir(appName string) error {
	return nil
}
