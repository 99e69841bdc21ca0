// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）或 mobile 包中。
// 本包保存该文件系统，让其他包按 "data/..." 路径读取资源。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// 资源路径前缀
const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用；测试中可以传入 fstest.MapFS
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一分隔符、去掉 "./" 前缀并校验路径前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, dataPrefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, dataPrefix)
	}
	return path, nil
}

// Open 打开资源文件
func Open(path string) (fs.File, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(path)
}

// ReadFile 读取资源文件内容
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配资源文件，结果按字典序排列
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}
