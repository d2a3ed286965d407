package dusort

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// engines lists the jobs values selecting each Walker implementation.
//
//nolint:gochecknoglobals // Test table
var engines = []struct {
	name string
	jobs int
}{
	{"sequential", 1},
	{"fastwalk", 4},
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func symlink(t *testing.T, target, link string) int64 {
	t.Helper()

	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("lstat %s: %v", link, err)
	}

	return info.Size()
}

// lockDir removes all permissions from dir and skips the test if the process
// can still list it (e.g. when running as root).
func lockDir(t *testing.T, dir string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	if err := os.Chmod(dir, 0o000); err != nil {
		t.Fatalf("chmod %s: %v", dir, err)
	}

	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if _, err := os.ReadDir(dir); err == nil {
		t.Skip("process can read a 0o000 directory")
	}
}

// buildTree creates:
//
//	d/f        100
//	d/e/g      200
//	d/e/h/i    300
func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "d", "f"), 100)
	writeFile(t, filepath.Join(root, "d", "e", "g"), 200)
	writeFile(t, filepath.Join(root, "d", "e", "h", "i"), 300)

	return root
}

func TestWalker_RecursiveTotal(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := buildTree(t)
			walker := NewWalker(root, engine.jobs, nil)

			tests := []struct {
				path string
				want int64
			}{
				{"d", 600},
				{"d/e", 500},
				{"d/e/h", 300},
				{"d/f", 100},
			}

			for _, tt := range tests {
				res := walker.Walk(context.Background(), filepath.Join(root, filepath.FromSlash(tt.path)))
				if res.Size != tt.want {
					t.Errorf("Walk(%s).Size = %d, want %d", tt.path, res.Size, tt.want)
				}

				if len(res.Errors) != 0 {
					t.Errorf("Walk(%s).Errors = %v, want none", tt.path, res.Errors)
				}
			}
		})
	}
}

func TestWalker_NonDirectoryPath(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "f"), 100)
			linkSize := symlink(t, "f", filepath.Join(root, "l"))

			walker := NewWalker(root, engine.jobs, nil)

			tests := []struct {
				path string
				want int64
			}{
				{"f", 100},
				{"l", linkSize},
			}

			for _, tt := range tests {
				res := walker.Walk(context.Background(), filepath.Join(root, tt.path))
				if res.Size != tt.want || len(res.Errors) != 0 {
					t.Errorf("Walk(%s) = %d, %v; want %d with no errors", tt.path, res.Size, res.Errors, tt.want)
				}
			}
		})
	}
}

func TestWalker_DeepTree(t *testing.T) {
	const depth = 40

	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := t.TempDir()

			dir := filepath.Join(root, "deep")
			for i := range depth {
				writeFile(t, filepath.Join(dir, "leaf"), i+1)
				dir = filepath.Join(dir, "n")
			}

			res := NewWalker(root, engine.jobs, nil).Walk(context.Background(), filepath.Join(root, "deep"))

			if want := int64(depth * (depth + 1) / 2); res.Size != want {
				t.Errorf("Size = %d, want %d", res.Size, want)
			}
		})
	}
}

func TestWalker_SymlinkToAncestor(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := buildTree(t)
			linkSize := symlink(t, "..", filepath.Join(root, "d", "e", "up"))

			res := NewWalker(root, engine.jobs, nil).Walk(context.Background(), filepath.Join(root, "d"))

			if want := 600 + linkSize; res.Size != want {
				t.Errorf("Size = %d, want %d (files plus link itself)", res.Size, want)
			}

			if len(res.Errors) != 0 {
				t.Errorf("Errors = %v, want none", res.Errors)
			}
		})
	}
}

func TestWalker_SymlinkToLargeFile(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "big"), 50000)
			writeFile(t, filepath.Join(root, "d", "small"), 10)
			linkSize := symlink(t, filepath.Join(root, "big"), filepath.Join(root, "d", "big"))

			res := NewWalker(root, engine.jobs, nil).Walk(context.Background(), filepath.Join(root, "d"))

			if want := 10 + linkSize; res.Size != want {
				t.Errorf("Size = %d, want %d", res.Size, want)
			}
		})
	}
}

func TestWalker_UnreadableSubdirectory(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := buildTree(t)
			writeFile(t, filepath.Join(root, "d", "locked", "hidden"), 1000)
			lockDir(t, filepath.Join(root, "d", "locked"))

			res := NewWalker(root, engine.jobs, nil).Walk(context.Background(), filepath.Join(root, "d"))

			if res.Size != 600 {
				t.Errorf("Size = %d, want 600", res.Size)
			}

			if len(res.Errors) != 1 {
				t.Fatalf("Errors = %v, want exactly one", res.Errors)
			}

			if got := res.Errors[0]; got.Path != "d/locked" || got.Cause != CausePermissionDenied {
				t.Errorf("Errors[0] = %+v, want d/locked permission denied", got)
			}
		})
	}
}

func TestWalker_MissingPath(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			root := t.TempDir()

			res := NewWalker(root, engine.jobs, nil).Walk(context.Background(), filepath.Join(root, "gone"))

			if res.Size != 0 {
				t.Errorf("Size = %d, want 0", res.Size)
			}

			if len(res.Errors) != 1 || res.Errors[0].Cause != CauseNotFound {
				t.Errorf("Errors = %v, want one not found", res.Errors)
			}

			if len(res.Errors) == 1 && !strings.HasSuffix(res.Errors[0].Path, "gone") {
				t.Errorf("Errors[0].Path = %q, want suffix gone", res.Errors[0].Path)
			}
		})
	}
}

func TestWalker_EnginesAgree(t *testing.T) {
	root := t.TempDir()

	for i := range 8 {
		for j := range 5 {
			writeFile(t, filepath.Join(root, "w", string(rune('a'+i)), string(rune('a'+j))), (i+1)*(j+3)*17)
		}
	}

	path := filepath.Join(root, "w")
	seq := NewWalker(root, 1, nil).Walk(context.Background(), path)
	fast := NewWalker(root, 8, nil).Walk(context.Background(), path)

	if seq.Size != fast.Size {
		t.Errorf("sequential = %d, fastwalk = %d", seq.Size, fast.Size)
	}
}
