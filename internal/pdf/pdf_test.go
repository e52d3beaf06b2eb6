package pdf

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"
)

// fakeDoc renders solid pages until failAt, then errors.
type fakeDoc struct {
	pages  int
	failAt int // 0-based page index, -1 for never
}

func (d *fakeDoc) NumPage() int { return d.pages }

func (d *fakeDoc) Image(n int) (*image.RGBA, error) {
	if n == d.failAt {
		return nil, fmt.Errorf("damaged page")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func tempPageDirs(t *testing.T) []string {
	t.Helper()
	dirs, err := filepath.Glob(filepath.Join(os.TempDir(), "reimburse-pages-*"))
	if err != nil {
		t.Fatal(err)
	}
	return dirs
}

func TestRenderToTemp(t *testing.T) {
	paths, err := renderToTemp(&fakeDoc{pages: 3, failAt: -1}, "form.pdf")
	if err != nil {
		t.Fatalf("renderToTemp: %v", err)
	}
	defer Cleanup(paths)

	if len(paths) != 3 {
		t.Fatalf("rendered %d pages, want 3", len(paths))
	}
	for i, p := range paths {
		want := fmt.Sprintf("page_%03d.png", i+1)
		if filepath.Base(p) != want {
			t.Errorf("page %d named %s, want %s", i, filepath.Base(p), want)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("page %d not on disk: %v", i, err)
		}
	}
}

func TestRenderToTempRemovesDirOnFailure(t *testing.T) {
	before := tempPageDirs(t)

	// page 1 renders fine, page 2 fails; the written page must not leak
	_, err := renderToTemp(&fakeDoc{pages: 3, failAt: 1}, "form.pdf")
	if err == nil {
		t.Fatal("renderToTemp should fail on a damaged page")
	}

	after := tempPageDirs(t)
	if len(after) != len(before) {
		t.Errorf("temp page dirs leaked: %d before, %d after", len(before), len(after))
	}
}

func TestCleanupTolerant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page_001.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	Cleanup([]string{path, filepath.Join(dir, "never-existed.png")})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("page still present after Cleanup: %v", err)
	}
}
