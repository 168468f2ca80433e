package testutil

import (
	"os"
	"path/filepath"

	"src.lamb.sh/pkg/must"
)

// TempDirer wraps the TempDir method. It is a subset of [testing.TB].
type TempDirer interface {
	TempDir() string
}

// TempDir returns a temporary directory for the duration of a test, with
// symlinks in its path resolved.
func TempDir(t TempDirer) string {
	return must.OK1(filepath.EvalSymlinks(t.TempDir()))
}

// InTempDir is like [TempDir], but also changes into the directory, changing
// back to the original working directory when the test finishes.
func InTempDir(t interface {
	TempDirer
	Cleanuper
}) string {
	dir := TempDir(t)
	Chdir(t, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when a test finishes.
func Chdir(c Cleanuper, dir string) {
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(oldWd) })
}

// Dir describes the layout of a directory. The keys are file names and the
// values are either a string (the content of a regular file) or another Dir.
type Dir map[string]any

// ApplyDir creates the given filesystem layout in the current directory.
func ApplyDir(dir Dir) {
	applyDir(dir, "")
}

func applyDir(dir Dir, prefix string) {
	for name, file := range dir {
		path := filepath.Join(prefix, name)
		switch file := file.(type) {
		case string:
			must.WriteFile(path, file)
		case Dir:
			must.MkdirAll(path)
			applyDir(file, path)
		default:
			panic(file)
		}
	}
}
