package natsuzora

import (
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/natsuzora/natsuzora/natsuzorafs"
)

// defaultExt is the partial file suffix; it is not part of the
// engine's external contract, so callers can override it via
// WithExtension or LoaderConfig.
const defaultExt = ".ntzr"

// Loader maps include names to parsed partials: it enforces the
// include-root sandbox, caches parses across renders, and guards
// against recursive includes. A *Loader is mutable (cache and include
// stack) and must not be shared between concurrent renders without
// external synchronization — the internal mutex here only protects
// against data races on that shared state, it does not make
// concurrent renders through one Loader semantically safe.
type Loader struct {
	fsys natsuzorafs.FS
	root string
	ext  string

	mu           sync.Mutex
	cache        map[string]*Template
	includeStack []string
}

// LoaderOption configures a Loader built by NewLoader.
type LoaderOption func(*Loader)

// WithExtension overrides the partial file suffix (default ".ntzr").
func WithExtension(ext string) LoaderOption {
	return func(l *Loader) { l.ext = ext }
}

// WithFS points the loader at an already-built natsuzorafs.FS (e.g. an
// in-memory fstest.MapFS) instead of resolving includeRoot against
// the local disk. canonicalRoot is used only for diagnostic messages.
func WithFS(fsys natsuzorafs.FS, canonicalRoot string) LoaderOption {
	return func(l *Loader) {
		l.fsys = fsys
		l.root = canonicalRoot
	}
}

// NewLoader builds a Loader rooted at includeRoot on the local disk
// (overridable via WithFS).
func NewLoader(includeRoot string, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		ext:   defaultExt,
		cache: map[string]*Template{},
	}
	fsys, root, err := natsuzorafs.Local(includeRoot)
	if err != nil {
		return nil, wrapErr(KindIO, Location{}, err, "resolving include root %q", includeRoot)
	}
	l.fsys, l.root = fsys, root

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load resolves name to a parsed Template, reading and parsing it at
// most once until the cache is emptied by Clear (cache hits skip both).
func (l *Loader) Load(name string) (*Template, error) {
	if err := validateIncludeName(name); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if t, ok := l.cache[name]; ok {
		l.mu.Unlock()
		logger.Tracef("include %q: cache hit", name)
		return t, nil
	}
	l.mu.Unlock()

	relPath, err := resolveIncludePath(name, l.ext)
	if err != nil {
		return nil, err
	}

	logger.Tracef("include %q: cache miss, reading %q under %q", name, relPath, l.root)
	data, err := fs.ReadFile(l.fsys, relPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newErr(KindInclude, Location{}, "partial %q not found", name)
		}
		return nil, wrapErr(KindIO, Location{}, err, "reading partial %q", name)
	}

	tmpl, err := ParseString(name, string(data))
	if err != nil {
		return nil, wrapErr(KindInclude, Location{}, err, "parsing partial %q", name)
	}

	l.mu.Lock()
	l.cache[name] = tmpl
	l.mu.Unlock()
	return tmpl, nil
}

// CacheLen reports how many partials are currently cached.
func (l *Loader) CacheLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

// Clear empties the parse cache; a subsequent Load re-reads and
// re-parses from the filesystem.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = map[string]*Template{}
}

// pushInclude records name on the recursion guard, failing
// IncludeError if it is already present (a direct or transitive
// self-include).
func (l *Loader) pushInclude(name string, loc Location) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range l.includeStack {
		if n == name {
			logger.Warningf("circular include detected: %q", name)
			return newErr(KindInclude, loc, "circular include: %q", name)
		}
	}
	l.includeStack = append(l.includeStack, name)
	return nil
}

func (l *Loader) popInclude() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.includeStack = l.includeStack[:len(l.includeStack)-1]
}

// resolveIncludePath maps an include name to a partial's file path:
// split on '/', join all segments under the include root, and prefix
// the last segment with '_' before appending ext. The sandbox check
// then requires the resulting path to be a clean, non-escaping path
// relative to the root (fs.ValidPath already enforces exactly that
// shape, and every fs.FS implementation re-enforces it again on
// Open/ReadFile, so a deliberately malformed name can never reach the
// underlying filesystem). The check is lexical only: symlinks under the
// root are not resolved and are followed wherever they point.
func resolveIncludePath(name string, ext string) (string, error) {
	segs := strings.Split(strings.TrimPrefix(name, "/"), "/")
	last := len(segs) - 1
	segs[last] = "_" + segs[last] + ext
	rel := path.Join(segs...)
	if !fs.ValidPath(rel) {
		return "", newErr(KindInclude, Location{}, "path traversal: %q resolves outside the include root", name)
	}
	return rel, nil
}

// validateIncludeName re-checks an include name at load time: the
// parser already rejects malformed names before a Template exists at
// all, but the loader re-validates independently since a Template may
// be constructed by means other than this package's own parser in
// principle, and because the sandbox check depends on it.
func validateIncludeName(name string) error {
	if !strings.HasPrefix(name, "/") {
		return newErr(KindInclude, Location{}, "include name %q must start with '/'", name)
	}
	if strings.Contains(name, "..") || strings.Contains(name, "//") || strings.Contains(name, "\\") || strings.Contains(name, ":") {
		return newErr(KindInclude, Location{}, "include name %q contains a forbidden sequence", name)
	}
	segs := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for _, seg := range segs {
		if !validIdentString(seg) {
			return newErr(KindInclude, Location{}, "include name %q has an invalid segment %q", name, seg)
		}
	}
	return nil
}

// validIdentString is the string-level twin of validateIdentifier,
// used where no Token/Location is available to attach to an error.
func validIdentString(s string) bool {
	if s == "" || s[0] == '_' || !isIdentStart(rune(s[0])) || reservedWords[s] {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentCont(rune(s[i])) {
			return false
		}
	}
	return true
}
