package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/multierr"

	"sdv/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates an empty report writing to the configured destination,
// falling back to a temporary file when it cannot be created there.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip")
	}
	if err != nil {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is one future archive member: either captured bytes or a path
// picked up at archiving time.
type entry struct {
	source string // path as given by the caller, empty for raw data
	path   string // absolute path to archive, may point into a snapshot
	root   string // temporary snapshot root to drop after archiving
	stamp  time.Time
	data   []byte
}

// Report accumulates files, directories and raw data to pack into a
// single archive for troubleshooting. A nil *Report is valid and does
// nothing, so call sites stay free of "is reporting on" checks.
// NOTE: not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Name returns the absolute location of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if abs, err := filepath.Abs(r.file.Name()); err == nil {
		return abs
	}
	return r.file.Name()
}

// Store registers a file or directory to pick up when the report is
// closed. Registering a different path under a taken name is a
// programming error, registering the same one again does nothing.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, taken := r.entries[name]; taken {
		if old.source != path {
			panic(fmt.Sprintf("report entry %q: refusing to replace %s with %s", name, old.source, path))
		}
		return
	}
	e := entry{source: path, path: path}
	if abs, err := filepath.Abs(path); err == nil {
		e.path = abs
	}
	r.entries[name] = e
}

// StoreData registers raw bytes to archive under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, taken := r.entries[name]; taken {
		panic(fmt.Sprintf("report entry %q: refusing to replace stored data", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// StoreCopy snapshots a file or directory into a temporary location so
// later changes do not leak into the report. Taken names are versioned
// with a timestamp, storing under the same name repeatedly is safe.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}

	// until the entry is registered cleanup() does not know about dir,
	// failed snapshots have to remove it themselves
	e := entry{source: path, root: dir, stamp: time.Now()}
	switch {
	case info.Mode().IsRegular():
		copied, err := copyFile(dir, abs, info.ModTime())
		if err != nil {
			os.RemoveAll(dir)
			return err
		}
		e.path = copied
	case info.Mode().IsDir():
		if err := copyTree(dir, abs); err != nil {
			os.RemoveAll(dir)
			return err
		}
		e.path = dir
	default:
		os.RemoveAll(dir)
		return fmt.Errorf("unable to snapshot %s: not a file or directory", path)
	}

	if _, taken := r.entries[name]; taken {
		name = fmt.Sprintf("%s-%d", name, e.stamp.UnixNano())
	}
	r.entries[name] = e
	return nil
}

// Close packs everything accumulated into the archive and drops the
// snapshot copies. Closing a nil or never prepared report does nothing.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	if err := r.write(); err != nil {
		return err
	}
	return r.cleanup()
}

// cleanup removes the temporary snapshot roots. Originals registered
// with Store are always left alone.
func (r *Report) cleanup() error {
	roots := make(map[string]bool)
	for _, e := range r.entries {
		if len(e.root) != 0 {
			roots[e.root] = true
		}
	}
	var errs error
	for root := range roots {
		errs = multierr.Append(errs, os.RemoveAll(root))
	}
	return errs
}

// write creates the final archive: a MANIFEST describing every entry
// followed by the entries themselves in manifest order.
func (r *Report) write() error {
	arc := zip.NewWriter(r.file)
	defer arc.Close()

	names := slices.Sorted(maps.Keys(r.entries))

	if err := packData(arc, "MANIFEST", time.Now(), r.manifest(names)); err != nil {
		return err
	}
	for _, name := range names {
		if err := r.pack(arc, name); err != nil {
			return err
		}
	}
	return nil
}

// manifest lists entries one per line: stamp, archive name, where the
// content came from and where it was picked up.
func (r *Report) manifest(names []string) []byte {
	buf := new(bytes.Buffer)
	now := time.Now()
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s : %s\n", stamp.UTC().Format(time.UnixDate), name, e.source, e.path)
	}
	return buf.Bytes()
}

// pack writes one entry into the archive. Paths which vanished since
// they were stored leave a gap rather than failing the whole report.
func (r *Report) pack(arc *zip.Writer, name string) error {
	e := r.entries[name]
	if len(e.data) > 0 {
		return packData(arc, name, e.stamp, e.data)
	}

	info, err := os.Stat(e.path)
	if err != nil {
		return nil
	}
	switch {
	case info.Mode().IsDir():
		return packTree(arc, name, e.path)
	case info.Mode().IsRegular():
		return packFile(arc, name, e.path, info.ModTime())
	}
	return nil
}

func packData(arc *zip.Writer, name string, stamp time.Time, data []byte) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func packFile(arc *zip.Writer, name, path string, stamp time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func packTree(arc *zip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			// links, sockets and the like have no place in the report
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return packFile(arc, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}

func copyFile(dir, src string, modTime time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, modTime, modTime); err != nil {
		return "", err
	}
	return dst, nil
}

func copyTree(dir, src string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		_, err = copyFile(filepath.Dir(filepath.Join(dir, rel)), path, info.ModTime())
		return err
	})
}
