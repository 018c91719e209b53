// Package natsuzorafs is the virtual filesystem abstraction the
// partial loader reads partials through, built on io/fs: a *Loader can
// be pointed at a real directory via Local, or at an in-memory tree
// (fstest.MapFS, or any other fs.FS) for tests that should not touch
// disk.
package natsuzorafs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the read surface the loader needs: an io/fs.FS that also
// supports stat, which every stdlib FS implementation (os.DirFS,
// fstest.MapFS, embed.FS) already provides.
type FS interface {
	fs.FS
	fs.StatFS
}

// Local returns an FS rooted at dir on the local disk, together with
// dir resolved to an absolute, symlink-free path. Only the root is
// canonicalized: paths opened through the FS are not, so a symlink
// under the root is followed wherever it points.
func Local(dir string) (FS, string, error) {
	abs, err := canonicalize(dir)
	if err != nil {
		return nil, "", err
	}
	return os.DirFS(abs).(FS), abs, nil
}

// canonicalize resolves dir to an absolute path with symlinks
// evaluated, giving the loader a stable, canonical root path.
func canonicalize(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// A not-yet-existing include root (e.g. created after the
		// loader but before first use) still canonicalizes on the
		// absolute path alone; the sandbox check re-validates on
		// every Load call regardless.
		return abs, nil
	}
	return resolved, nil
}
