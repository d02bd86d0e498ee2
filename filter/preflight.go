package filter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/teranos/locofilter/errors"
)

// FreeSpaceFunc reports the free bytes of the volume holding path
type FreeSpaceFunc func(path string) (uint64, error)

// DiskFree asks the OS for the free space of the volume that will hold path.
// path may not exist yet; its nearest existing ancestor is measured instead.
func DiskFree(path string) (uint64, error) {
	p := path
	for {
		if _, err := os.Stat(p); err == nil {
			break
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}

	usage, err := disk.Usage(p)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get disk usage of %s", p)
	}
	return usage.Free, nil
}

// checkFreeSpace fails with an output error when less than minMB megabytes are free
func checkFreeSpace(free FreeSpaceFunc, path string, minMB uint64) error {
	if free == nil || minMB == 0 {
		return nil
	}
	avail, err := free(path)
	if err != nil {
		return errors.WrapOutput(err, "cannot check free space")
	}
	if avail < minMB*1024*1024 {
		err := errors.Mark(errors.Newf("only %d MB free at %s, need %d MB",
			avail/(1024*1024), path, minMB), errors.ErrOutput)
		return errors.WithHint(err, "free some space or lower output.min_free_mb")
	}
	return nil
}

// validateRoots checks the backup root is an existing directory and the
// output root is neither the backup root nor nested with it either way
func validateRoots(backupDir, outputDir string, stat func(string) (os.FileInfo, error)) (string, string, error) {
	if strings.TrimSpace(backupDir) == "" {
		return "", "", errors.WithHint(errors.NewConfigurationError("no backup directory given"),
			"pass --backup-dir")
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", "", errors.WithHint(errors.NewConfigurationError("no output directory given"),
			"pass --output-dir or set filter.output_dir")
	}

	src, err := canonical(backupDir)
	if err != nil {
		return "", "", errors.MarkConfiguration(err)
	}
	dst, err := canonical(outputDir)
	if err != nil {
		return "", "", errors.MarkConfiguration(err)
	}

	info, err := stat(src)
	if err != nil {
		return "", "", errors.WithHint(
			errors.MarkConfiguration(errors.Wrapf(err, "backup directory %s", src)),
			"check the --backup-dir path")
	}
	if !info.IsDir() {
		return "", "", errors.NewConfigurationError("backup path %s is not a directory", src)
	}

	switch {
	case src == dst:
		return "", "", errors.WithHint(errors.NewConfigurationError("output directory is the backup directory"),
			"choose a separate --output-dir")
	case within(dst, src):
		return "", "", errors.WithHint(errors.NewConfigurationError("output directory %s is inside the backup %s", dst, src),
			"choose an --output-dir outside the backup")
	case within(src, dst):
		return "", "", errors.WithHint(errors.NewConfigurationError("output directory %s contains the backup %s", dst, src),
			"choose an --output-dir that does not contain the backup")
	}
	return src, dst, nil
}

// canonical makes p absolute and resolves symlinks of its longest existing prefix
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "cannot resolve %s", p)
	}

	rest := ""
	for dir := abs; ; {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// within reports whether child lies strictly below parent
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
