//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 在打开 gdata 之前创建 Android 私有目录下的设置目录
//
// gdata 在 Android 上把数据写到 /data/data/{包名}/ 下，但不会预先创建子目录。
// 包名从 /proc/self/cmdline 读取。
func EnsureStorageDir(appName string) error {
	pkg, err := androidPackageName()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	return os.Remove(testFile)
}

// androidPackageName 进程命令行即应用包名（以 NUL 结尾）
func androidPackageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", ""))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
