//go:build !mobile

package utils

import "testing"

func TestIsMobileDesktop(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"未设置", "", false},
		{"模拟移动端", "1", true},
		{"其它值", "true", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvMobileEmulate, tt.value)
			if got := IsMobile(); got != tt.want {
				t.Errorf("IsMobile() = %v, want %v", got, tt.want)
			}
		})
	}
}
