package config

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// namedColors 支持的颜色名称
var namedColors = map[string]color.NRGBA{
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"transparent": {0, 0, 0, 0},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"gold":        {255, 215, 0, 255},
}

// ParseColor 解析颜色字符串为非预乘 RGBA
//
// 支持的格式：
//
//	rgba(255, 255, 255, 0.8)  alpha 为 0-1 或百分比
//	rgb(255, 255, 255)
//	#rgb  #rgba  #rrggbb  #rrggbbaa
//	white、black、transparent 等少量颜色名
func ParseColor(s string) (color.NRGBA, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(text, "#") {
		return parseHexColor(text[1:])
	}
	if c, ok := namedColors[text]; ok {
		return c, nil
	}

	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	fn := strings.TrimSpace(text[:open])
	args := strings.Split(text[open+1:len(text)-1], ",")

	switch {
	case fn == "rgb" && len(args) == 3, fn == "rgba" && len(args) == 4:
	default:
		return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
	}

	var c color.NRGBA
	channels := []*uint8{&c.R, &c.G, &c.B}
	for i, ch := range channels {
		v, err := parseChannel(args[i])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		*ch = v
	}

	c.A = 255
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.A = a
	}
	return c, nil
}

// parseChannel 0-255 的整数或百分比
func parseChannel(arg string) (uint8, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasSuffix(arg, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, err
		}
		return toByte(p / 100 * 255), nil
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	return toByte(v), nil
}

// parseAlpha 0-1 的小数或百分比
func parseAlpha(arg string) (uint8, error) {
	arg = strings.TrimSpace(arg)
	scale := 1.0
	if strings.HasSuffix(arg, "%") {
		arg = strings.TrimSuffix(arg, "%")
		scale = 100
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	return toByte(v / scale * 255), nil
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func parseHexColor(hex string) (color.NRGBA, error) {
	// 短格式每位重复一次：#abc → #aabbcc
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color #%s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color #%s: %w", hex, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
