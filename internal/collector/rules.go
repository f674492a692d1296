package collector

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aleph-cli/aleph/internal/config"
)

const (
	// DefaultMaxFileSize skips files above 256 KiB.
	DefaultMaxFileSize int64 = 256 << 10
	// DefaultMaxTotalSize caps the concatenated payload at 2 MiB.
	DefaultMaxTotalSize int64 = 2 << 20
)

// DefaultExcludeDirs are directory names pruned during traversal:
// virtual environments, version-control metadata, editor state and
// build/output directories.
var DefaultExcludeDirs = []string{
	"venv", ".venv", "env",
	".git", ".hg", ".svn",
	"__pycache__", ".mypy_cache", ".pytest_cache", ".tox",
	"node_modules", "vendor",
	"dist", "build", "target",
	".idea", ".vscode",
}

// DefaultMarkerFiles mark a directory as a virtual environment regardless
// of its name.
var DefaultMarkerFiles = []string{"pyvenv.cfg"}

// SourceExtensions is the extension allow-list preset matching the file
// types a code review usually cares about. Rules include every extension
// unless IncludeExtensions is set.
var SourceExtensions = []string{
	".py", ".js", ".ts", ".html", ".css", ".md", ".txt", ".json",
	".yaml", ".yml", ".csv", ".xml", ".java", ".go", ".c", ".cpp",
	".h", ".hpp", ".sh", ".bash", ".env", ".toml", ".ini", ".log",
}

// Rules is the exclusion policy applied by Collect.
type Rules struct {
	ExcludeDirs       []string // directory base names to prune
	MarkerFiles       []string // a directory containing any of these is pruned
	ExcludeGlobs      []string // doublestar patterns, relative to the root, slash separated
	IncludeExtensions []string // empty = all extensions
	MaxFileSize       int64    // <= 0 disables the limit
	MaxTotalSize      int64    // <= 0 disables the limit
	RespectGitignore  bool     // honor <root>/.gitignore
	SkipHidden        bool     // prune directories whose name starts with "."
}

// DefaultRules returns the default exclusion policy.
func DefaultRules() Rules {
	return Rules{
		ExcludeDirs:  append([]string(nil), DefaultExcludeDirs...),
		MarkerFiles:  append([]string(nil), DefaultMarkerFiles...),
		MaxFileSize:  DefaultMaxFileSize,
		MaxTotalSize: DefaultMaxTotalSize,
		SkipHidden:   true,
	}
}

// RulesFromConfig overlays the configured collector settings on the
// defaults. Lists given in the config replace the default lists.
func RulesFromConfig(cfg config.CollectorConfig) Rules {
	r := DefaultRules()
	if len(cfg.ExcludeDirs) > 0 {
		r.ExcludeDirs = cfg.ExcludeDirs
	}
	if len(cfg.MarkerFiles) > 0 {
		r.MarkerFiles = cfg.MarkerFiles
	}
	r.ExcludeGlobs = cfg.ExcludeGlobs
	r.IncludeExtensions = normalizeExtensions(cfg.IncludeExtensions)
	if cfg.MaxFileSize != 0 {
		r.MaxFileSize = cfg.MaxFileSize
	}
	if cfg.MaxTotalSize != 0 {
		r.MaxTotalSize = cfg.MaxTotalSize
	}
	r.RespectGitignore = cfg.RespectGitignore
	if cfg.SkipHidden != nil {
		r.SkipHidden = *cfg.SkipHidden
	}
	return r
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func (r Rules) excludedDirName(name string) bool {
	for _, d := range r.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}

func (r Rules) allowedExtension(name string) bool {
	if len(r.IncludeExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range r.IncludeExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// matchesGlob reports whether rel (slash separated) matches an exclusion
// pattern. Patterns without a slash also match the base name at any depth.
func (r Rules) matchesGlob(rel string) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, pattern := range r.ExcludeGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
