// Package collector gathers the text files of a directory tree into a single
// labeled block suitable for inclusion in a prompt.
package collector

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	gitignore "github.com/monochromegane/go-gitignore"
)

// sniffLen is how many leading bytes are checked for NUL when deciding
// whether a file is text.
const sniffLen = 8 << 10

var (
	ErrPathNotFound  = errors.New("path not found")
	ErrNotADirectory = errors.New("not a directory")
	ErrNotAFile      = errors.New("not a file")
)

// PathError reports a collection root that cannot be used.
// Err is one of ErrPathNotFound, ErrNotADirectory or ErrNotAFile.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Err.Error() + ": " + e.Path }

func (e *PathError) Unwrap() error { return e.Err }

// File is one included file.
type File struct {
	RelPath string // slash separated, relative to the root
	Content string
}

// CollectedDirectory is the result of a collection run.
type CollectedDirectory struct {
	Root        string
	Files       []File
	Excluded    int  // files skipped by size, extension, glob, gitignore, type or text checks
	SkippedDirs int  // directories pruned with their whole subtree
	Unreadable  int  // entries that could not be read; counted, never raised
	Truncated   bool // the total size cap stopped inclusion
	TotalBytes  int64
}

// Empty reports whether no file was included.
func (c *CollectedDirectory) Empty() bool { return len(c.Files) == 0 }

// Text concatenates the included files, each introduced by a
// "--- rel/path ---" header line.
func (c *CollectedDirectory) Text() string {
	var sb strings.Builder
	for _, f := range c.Files {
		sb.WriteString("--- ")
		sb.WriteString(f.RelPath)
		sb.WriteString(" ---\n")
		sb.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Collect walks root in lexical order and returns the text files that pass
// rules. It performs no writes.
func Collect(root string, rules Rules) (*CollectedDirectory, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Path: root, Err: ErrPathNotFound}
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, &PathError{Path: root, Err: ErrNotADirectory}
	}

	// WalkDir does not descend into a symlinked root; walk its target
	// while reporting the path as given.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	w := &walker{
		root:  walkRoot,
		rules: rules,
		out:   &CollectedDirectory{Root: root},
	}
	if w.hasMarker(walkRoot) {
		w.out.SkippedDirs++
		slog.Debug("collector: root is a virtual environment", "root", root)
		return w.out, nil
	}
	if rules.RespectGitignore {
		if m, err := gitignore.NewGitIgnore(filepath.Join(walkRoot, ".gitignore"), walkRoot); err == nil {
			w.ignore = m
		}
	}

	if err := filepath.WalkDir(walkRoot, w.visit); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slog.Debug("directory collected",
		"root", root,
		"files", len(w.out.Files),
		"excluded", w.out.Excluded,
		"skipped_dirs", w.out.SkippedDirs,
		"unreadable", w.out.Unreadable,
		"bytes", w.out.TotalBytes,
	)
	return w.out, nil
}

// CollectFile collects a single file under the same size and text checks.
// A file failing those checks yields an empty collection with Excluded = 1.
func CollectFile(path string, rules Rules) (*CollectedDirectory, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Path: path, Err: ErrPathNotFound}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &PathError{Path: path, Err: ErrNotAFile}
	}

	out := &CollectedDirectory{Root: filepath.Dir(path)}
	if rules.MaxFileSize > 0 && info.Size() > rules.MaxFileSize {
		out.Excluded++
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		out.Unreadable++
		return out, nil
	}
	if !isText(data) {
		out.Excluded++
		return out, nil
	}
	out.Files = append(out.Files, File{RelPath: filepath.Base(path), Content: string(data)})
	out.TotalBytes = int64(len(data))
	return out, nil
}

type walker struct {
	root   string
	rules  Rules
	ignore gitignore.IgnoreMatcher
	out    *CollectedDirectory
}

func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return err
		}
		w.out.Unreadable++
		slog.Debug("collector: unreadable entry", "path", path, "error", err)
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}

	if path == w.root {
		return nil
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		w.out.Unreadable++
		return nil
	}
	rel = filepath.ToSlash(rel)

	if d.IsDir() {
		if reason := w.skipDir(path, d.Name(), rel); reason != "" {
			w.out.SkippedDirs++
			slog.Debug("collector: skip dir", "path", rel, "reason", reason)
			return filepath.SkipDir
		}
		return nil
	}

	switch reason, unreadable := w.addFile(path, d, rel); {
	case unreadable:
		w.out.Unreadable++
		slog.Debug("collector: unreadable file", "path", rel, "reason", reason)
	case reason != "":
		w.out.Excluded++
		slog.Debug("collector: skip file", "path", rel, "reason", reason)
	}
	return nil
}

func (w *walker) skipDir(path, name, rel string) string {
	switch {
	case w.rules.excludedDirName(name):
		return "excluded name"
	case w.rules.SkipHidden && strings.HasPrefix(name, "."):
		return "hidden"
	case w.hasMarker(path):
		return "virtual environment"
	case w.rules.matchesGlob(rel):
		return "glob"
	case w.ignore != nil && w.ignore.Match(path, true):
		return "gitignore"
	}
	return ""
}

// addFile applies the file rules and, when the file passes, appends it to
// the output. It returns the exclusion reason, or "" when included;
// unreadable is set when the reason is an I/O failure.
func (w *walker) addFile(path string, d fs.DirEntry, rel string) (reason string, unreadable bool) {
	if !d.Type().IsRegular() {
		return "not a regular file", false
	}
	if !w.rules.allowedExtension(d.Name()) {
		return "extension", false
	}
	if w.rules.matchesGlob(rel) {
		return "glob", false
	}
	if w.ignore != nil && w.ignore.Match(path, false) {
		return "gitignore", false
	}

	info, err := d.Info()
	if err != nil {
		return "stat failed", true
	}
	if w.rules.MaxFileSize > 0 && info.Size() > w.rules.MaxFileSize {
		return "too large", false
	}
	if w.rules.MaxTotalSize > 0 && w.out.TotalBytes+info.Size() > w.rules.MaxTotalSize {
		w.out.Truncated = true
		return "total size cap", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "read failed", true
	}
	if !isText(data) {
		return "not text", false
	}

	w.out.Files = append(w.out.Files, File{RelPath: rel, Content: string(data)})
	w.out.TotalBytes += int64(len(data))
	return "", false
}

func (w *walker) hasMarker(dir string) bool {
	for _, marker := range w.rules.MarkerFiles {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// isText reports whether data is decodable as UTF-8 text without NUL bytes
// in its leading window.
func isText(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}
