package collector

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aleph-cli/aleph/internal/config"
)

// writeTree creates files under root; keys are slash separated paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(c *CollectedDirectory) []string {
	var out []string
	for _, f := range c.Files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestCollect_LexicalOrderAndText(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.txt":         "bravo",
		"a.py":          "print('alpha')\n",
		"sub/c.go":      "package c\n",
		"sub/deep/d.md": "# delta",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"a.py", "b.txt", "sub/c.go", "sub/deep/d.md"}
	if diff := cmp.Diff(want, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	text := got.Text()
	wantText := "--- a.py ---\nprint('alpha')\n" +
		"--- b.txt ---\nbravo\n" +
		"--- sub/c.go ---\npackage c\n" +
		"--- sub/deep/d.md ---\n# delta\n"
	if text != wantText {
		t.Errorf("Text() =\n%s\nwant\n%s", text, wantText)
	}

	again, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if again.Text() != text {
		t.Error("collection is not reproducible across runs")
	}
}

func TestCollect_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":                   "x = 1",
		".git/config":               "[core]",
		"venv/lib/site.py":          "site",
		".venv/lib/site.py":         "site",
		"node_modules/pkg/index.js": "module.exports = {}",
		"build/out.txt":             "artifact",
		"src/__pycache__/m.cpython": "cache",
		"src/app.py":                "app = 1",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"main.py", "src/app.py"}
	if diff := cmp.Diff(want, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if got.SkippedDirs != 6 {
		t.Errorf("expected 6 skipped dirs, got %d", got.SkippedDirs)
	}
}

func TestCollect_NestedVirtualEnvMarker(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/main.py":                     "main",
		"app/pyenv-3.12/pyvenv.cfg":       "home = /usr/bin",
		"app/pyenv-3.12/lib/site.py":      "site",
		"app/pyenv-3.12/bin/activate":     "activate",
		"app/pyenv-3.12/nested/deep/x.py": "deep",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	for _, f := range got.Files {
		if strings.HasPrefix(f.RelPath, "app/pyenv-3.12/") {
			t.Errorf("file under virtual environment included: %s", f.RelPath)
		}
	}
	if diff := cmp.Diff([]string{"app/main.py"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_SizeAndTextChecks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.txt":  "ok",
		"large.txt":  strings.Repeat("x", 64),
		"binary.bin": "ab\x00cd",
		"latin1.txt": "caf\xe9",
	})

	rules := DefaultRules()
	rules.MaxFileSize = 32

	got, err := Collect(root, rules)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if diff := cmp.Diff([]string{"small.txt"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if got.Excluded != 3 {
		t.Errorf("expected 3 excluded files, got %d", got.Excluded)
	}
}

func TestCollect_TotalSizeCap(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": strings.Repeat("a", 10),
		"b.txt": strings.Repeat("b", 10),
		"c.txt": strings.Repeat("c", 10),
	})

	rules := DefaultRules()
	rules.MaxTotalSize = 25

	got, err := Collect(root, rules)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.txt"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if !got.Truncated {
		t.Error("expected Truncated to be set")
	}
	if got.TotalBytes != 20 {
		t.Errorf("expected 20 bytes, got %d", got.TotalBytes)
	}
}

func TestCollect_GlobsAndExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.sum":          "sum",
		"main.go":         "package main",
		"notes.txt":       "notes",
		"docs/guide.md":   "# guide",
		"gen/api.pb.go":   "generated",
		"data/table.lock": "lock",
	})

	rules := RulesFromConfig(config.CollectorConfig{
		ExcludeGlobs:      []string{"gen/**", "*.lock"},
		IncludeExtensions: []string{"go", ".MD", ".lock"},
	})

	got, err := Collect(root, rules)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"docs/guide.md", "main.go"}
	if diff := cmp.Diff(want, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_RespectGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":  "*.log\nsecrets/\n",
		"app.py":      "app",
		"debug.log":   "log line",
		"secrets/key": "hunter2",
	})

	rules := DefaultRules()
	rules.RespectGitignore = true

	got, err := Collect(root, rules)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{".gitignore", "app.py"}
	if diff := cmp.Diff(want, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_EmptyAfterExclusions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".venv/bin/python": "elf",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !got.Empty() {
		t.Errorf("expected empty collection, got %v", relPaths(got))
	}
	if got.Text() != "" {
		t.Errorf("expected empty text, got %q", got.Text())
	}
}

func TestCollect_PathErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeTree(t, root, map[string]string{"file.txt": "x"})

	_, err := Collect(filepath.Join(root, "missing"), DefaultRules())
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}

	_, err = Collect(file, DefaultRules())
	if !errors.Is(err, ErrNotADirectory) {
		t.Errorf("expected ErrNotADirectory, got %v", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) || pe.Path != file {
		t.Errorf("expected PathError carrying %s, got %v", file, err)
	}
}

func TestCollectFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"report.csv": "a,b\n1,2\n",
		"blob.bin":   "\x00\x01",
	})

	got, err := CollectFile(filepath.Join(root, "report.csv"), DefaultRules())
	if err != nil {
		t.Fatalf("CollectFile: %v", err)
	}
	if diff := cmp.Diff([]string{"report.csv"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	got, err = CollectFile(filepath.Join(root, "blob.bin"), DefaultRules())
	if err != nil {
		t.Fatalf("CollectFile: %v", err)
	}
	if !got.Empty() || got.Excluded != 1 {
		t.Errorf("expected binary file to be excluded, got %+v", got)
	}

	if _, err := CollectFile(root, DefaultRules()); !errors.Is(err, ErrNotAFile) {
		t.Errorf("expected ErrNotAFile, got %v", err)
	}
	if _, err := CollectFile(filepath.Join(root, "nope"), DefaultRules()); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}

func TestRulesFromConfig_Defaults(t *testing.T) {
	r := RulesFromConfig(config.CollectorConfig{})
	if r.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want %d", r.MaxFileSize, DefaultMaxFileSize)
	}
	if r.MaxTotalSize != DefaultMaxTotalSize {
		t.Errorf("MaxTotalSize = %d, want %d", r.MaxTotalSize, DefaultMaxTotalSize)
	}
	if diff := cmp.Diff(DefaultExcludeDirs, r.ExcludeDirs); diff != "" {
		t.Errorf("ExcludeDirs mismatch (-want +got):\n%s", diff)
	}
	if !r.SkipHidden {
		t.Error("expected hidden directories to be skipped by default")
	}
	if len(r.IncludeExtensions) != 0 {
		t.Errorf("expected no extension filter by default, got %v", r.IncludeExtensions)
	}
}

func TestCollect_SymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "real")
	writeTree(t, target, map[string]string{
		"a.txt":     "alpha",
		"sub/b.txt": "bravo",
	})
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Collect(link, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "sub/b.txt"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if got.Root != link {
		t.Errorf("Root = %q, want the path as given %q", got.Root, link)
	}
}

func TestCollect_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":            "package main",
		".env.example":       "KEY=",
		".cache/blob.txt":    "cached",
		".terraform/state":   "tf",
		"web/.next/build.js": "bundle",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if diff := cmp.Diff([]string{".env.example", "main.go"}, relPaths(got)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if got.SkippedDirs != 3 {
		t.Errorf("expected 3 skipped dirs, got %d", got.SkippedDirs)
	}

	off := false
	rules := RulesFromConfig(config.CollectorConfig{SkipHidden: &off})
	got, err = Collect(root, rules)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{".cache/blob.txt", ".env.example", ".terraform/state", "main.go", "web/.next/build.js"}
	if diff := cmp.Diff(want, relPaths(got)); diff != "" {
		t.Errorf("files mismatch with skip_hidden off (-want +got):\n%s", diff)
	}
}

func TestCollect_RootIsVirtualEnv(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyvenv.cfg":             "home = /usr/bin",
		"lib/site-packages/x.py": "x",
	})

	got, err := Collect(root, DefaultRules())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !got.Empty() {
		t.Errorf("expected nothing collected from a virtual environment root, got %v", relPaths(got))
	}
	if got.SkippedDirs != 1 {
		t.Errorf("expected the root to count as a skipped dir, got %d", got.SkippedDirs)
	}
}
