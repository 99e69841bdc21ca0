package app

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/decker502/shimmer/pkg/embedded"
	"github.com/decker502/shimmer/pkg/scenes"
)

func initTestData(t *testing.T) {
	t.Helper()
	embedded.Init(fstest.MapFS{
		DefaultLayout: {Data: []byte(`
window: {width: 640, height: 360, title: Test}
shimmers:
  - id: card
    bounds: {x: 10, y: 10, width: 200, height: 20}
`)},
		"data/layouts/b.yaml": {Data: []byte("shimmers: []\n")},
		"data/layouts/a.yaml": {Data: []byte("shimmers: []\n")},
	})
	t.Cleanup(func() { embedded.Init(nil) })
}

func TestDiscoverLayouts(t *testing.T) {
	initTestData(t)

	tests := []struct {
		name    string
		primary string
		want    []string
	}{
		{"默认布局在前", DefaultLayout, []string{DefaultLayout, "data/layouts/a.yaml", "data/layouts/b.yaml"}},
		{"主布局不重复", "data/layouts/b.yaml", []string{"data/layouts/b.yaml", "data/layouts/a.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DiscoverLayouts(tt.primary)); diff != "" {
				t.Errorf("DiscoverLayouts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewApp(t *testing.T) {
	initTestData(t)

	a, err := NewApp(Config{Verbose: true})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	defer a.Close()

	if w, h := a.Layout(0, 0); w != 640 || h != 360 {
		t.Errorf("Layout() = %d, %d; want 640, 360", w, h)
	}
	if a.Window().Title != "Test" {
		t.Errorf("Title = %q, want Test", a.Window().Title)
	}
	if _, ok := a.sceneManager.GetCurrentScene().(*scenes.ShowcaseScene); !ok {
		t.Error("当前场景应为 ShowcaseScene")
	}
	if !a.IsVerbose() {
		t.Error("IsVerbose() = false")
	}
}

func TestNewAppMissingLayout(t *testing.T) {
	initTestData(t)
	if _, err := NewApp(Config{Verbose: true, Layout: "data/none.yaml"}); err == nil {
		t.Error("布局不存在时应返回错误")
	}
}
