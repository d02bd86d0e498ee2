package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/teranos/locofilter/errors"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// bucketWriter writes into one output bucket directory, creating it on the
// first write only. A bucket never holds files from more than one worker.
type bucketWriter struct {
	fs      afero.Fs
	dir     string
	created bool
}

func newBucketWriter(fs afero.Fs, dir string) *bucketWriter {
	return &bucketWriter{fs: fs, dir: dir}
}

func (w *bucketWriter) ensureDir() error {
	if w.created {
		return nil
	}
	if err := w.fs.MkdirAll(w.dir, dirPerm); err != nil {
		return errors.WrapOutputf(err, "cannot create output directory %s", w.dir)
	}
	w.created = true
	return nil
}

// copyVerbatim writes data unchanged under name and stamps it with mtime
func (w *bucketWriter) copyVerbatim(name string, data []byte, mtime time.Time) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	dst := filepath.Join(w.dir, name)
	if err := afero.WriteFile(w.fs, dst, data, filePerm); err != nil {
		return errors.WrapOutputf(err, "cannot write %s", dst)
	}
	return w.stamp(dst, mtime)
}

// writeGzip compresses data into name. The gzip header carries no name or
// timestamp so identical input always gives identical bytes.
func (w *bucketWriter) writeGzip(name string, data []byte, mtime time.Time) error {
	if err := w.ensureDir(); err != nil {
		return err
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return errors.Wrap(err, "gzip writer")
	}
	if _, err := zw.Write(data); err != nil {
		return errors.WrapOutputf(err, "cannot compress %s", name)
	}
	if err := zw.Close(); err != nil {
		return errors.WrapOutputf(err, "cannot compress %s", name)
	}

	dst := filepath.Join(w.dir, name)
	if err := afero.WriteFile(w.fs, dst, buf.Bytes(), filePerm); err != nil {
		return errors.WrapOutputf(err, "cannot write %s", dst)
	}
	return w.stamp(dst, mtime)
}

func (w *bucketWriter) stamp(path string, mtime time.Time) error {
	if mtime.IsZero() {
		return nil
	}
	if err := w.fs.Chtimes(path, mtime, mtime); err != nil {
		return errors.WrapOutputf(err, "cannot set modification time of %s", path)
	}
	return nil
}

// createStoreDirs creates the output directory of every store present in the source
func createStoreDirs(fs afero.Fs, root string, dirs []string) error {
	for _, d := range dirs {
		path := filepath.Join(root, d)
		if err := fs.MkdirAll(path, dirPerm); err != nil {
			return errors.WithHint(errors.WrapOutputf(err, "cannot create %s", path),
				"check that the output directory is writable")
		}
	}
	return nil
}
