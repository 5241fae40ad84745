// Package archive iterates zip contents without extracting them.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"slices"
	"strings"
)

// WalkFunc receives one archive entry per call. Returning an error
// stops the walk and Walk hands the error back to its caller.
type WalkFunc func(f *zip.File) error

// Walk opens the named archive and feeds every file entry to walkFn in
// storage order. Directory entries are not reported and ctx is checked
// between entries. An entry whose path could escape an extraction root
// (absolute, or with a ".." component) aborts the walk.
func Walk(ctx context.Context, name string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(name)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if escapes(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := walkFn(f); err != nil {
			return err
		}
	}
	return nil
}

// escapes reports whether an entry path could land outside an
// extraction root.
func escapes(name string) bool {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return true
	}
	return slices.Contains(strings.Split(name, "/"), "..")
}
