package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/shimmer/pkg/embedded"
)

// DemoConfig 演示程序的布局配置
// 对应 data/shimmer_demo.yaml
type DemoConfig struct {
	Window     WindowConfig         `yaml:"window"`
	Background string               `yaml:"background"` // 背景色
	Shimmers   []ShimmerEntryConfig `yaml:"shimmers"`   // 骨架占位块及其微光
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Rect 矩形区域（屏幕坐标，像素）
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ShimmerEntryConfig 单个骨架占位块
type ShimmerEntryConfig struct {
	ID        string        `yaml:"id"`        // 唯一标识
	Bounds    Rect          `yaml:"bounds"`    // 容器区域
	BaseColor string        `yaml:"baseColor"` // 占位块底色
	Shimmer   ShimmerConfig `yaml:"shimmer"`   // 微光配置，未写出的字段使用默认值
}

// 演示配置默认值
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
	DefaultWindowTitle  = "Shimmer"
	DefaultBackground   = "#1c1d22"
	DefaultBaseColor    = "#3a3d46"
)

// LoadDemoConfig 从嵌入资源加载演示布局
// 参数：
//
//	path - 以 "data/" 开头的嵌入资源路径
//
// 返回：
//
//	*DemoConfig - 解析并校验后的配置
//	error - 读取、解析或校验失败
func LoadDemoConfig(path string) (*DemoConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo config %s: %w", path, err)
	}
	cfg, err := ParseDemoConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid demo config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseDemoConfig 解析演示布局 YAML
func ParseDemoConfig(data []byte) (*DemoConfig, error) {
	var cfg DemoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse demo config YAML: %w", err)
	}
	applyDemoDefaults(&cfg)
	if err := validateDemoConfig(&cfg); err != nil {
		return nil, err
	}
	for i := range cfg.Shimmers {
		cfg.Shimmers[i].Shimmer.Normalize()
	}
	return &cfg, nil
}

func applyDemoDefaults(cfg *DemoConfig) {
	if cfg.Window.Width <= 0 {
		cfg.Window.Width = DefaultWindowWidth
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = DefaultWindowHeight
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = DefaultWindowTitle
	}
	if cfg.Background == "" {
		cfg.Background = DefaultBackground
	}
	for i := range cfg.Shimmers {
		if cfg.Shimmers[i].BaseColor == "" {
			cfg.Shimmers[i].BaseColor = DefaultBaseColor
		}
	}
}

func validateDemoConfig(cfg *DemoConfig) error {
	if _, err := ParseColor(cfg.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	seen := make(map[string]bool, len(cfg.Shimmers))
	for i, entry := range cfg.Shimmers {
		if entry.ID == "" {
			return fmt.Errorf("shimmer %d: id is required", i)
		}
		if seen[entry.ID] {
			return fmt.Errorf("shimmer %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = true

		if entry.Bounds.Width < 0 || entry.Bounds.Height < 0 {
			return fmt.Errorf("shimmer %q: bounds size cannot be negative", entry.ID)
		}
		if _, err := ParseColor(entry.BaseColor); err != nil {
			return fmt.Errorf("shimmer %q: baseColor: %w", entry.ID, err)
		}
	}
	return nil
}

// UnmarshalYAML 没有写 shimmer 字段的条目同样使用默认微光配置
func (e *ShimmerEntryConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ShimmerEntryConfig
	p := plain{Shimmer: DefaultShimmerConfig()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = ShimmerEntryConfig(p)
	return nil
}
