package spool

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/savage13/fern/pkg/log"
)

// ArchiveDir is the spool subdirectory finished request files move to.
const ArchiveDir = "done"

const dayLayout = "2006-01-02"

// Default archive watermarks.
const (
	DefaultArchiveHigh = int64(64 << 20)
	DefaultArchiveLow  = int64(48 << 20)
)

// Archive keeps finished request files under <spool>/done/<day>/. When the
// archive grows beyond High bytes the oldest files are removed until it is
// below Low.
type Archive struct {
	Root string
	High int64
	Low  int64

	logger log.Logger
	now    func() time.Time
}

// NewArchive creates an archive below spoolDir with the default watermarks.
func NewArchive(spoolDir string, logger log.Logger) *Archive {
	return &Archive{
		Root:   filepath.Join(spoolDir, ArchiveDir),
		High:   DefaultArchiveHigh,
		Low:    DefaultArchiveLow,
		logger: log.OrNoop(logger),
		now:    time.Now,
	}
}

// Store moves path into today's archive directory and trims the archive.
// A file with the same name already archived today is replaced.
func (a *Archive) Store(ctx context.Context, path string) (string, error) {
	day := filepath.Join(a.Root, a.now().UTC().Format(dayLayout))
	if err := os.MkdirAll(day, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	dst := filepath.Join(day, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	a.logger.Info("archived request file", log.String("file", dst))
	a.Trim(ctx)
	return dst, nil
}

// Trim removes the oldest archived files, by day then name, while the
// archive is above the high watermark. Today's directory is never touched.
func (a *Archive) Trim(ctx context.Context) {
	size, err := dirSize(a.Root)
	if err != nil {
		a.logger.Error("archive size check failed", log.Err(err))
		return
	}
	if size <= a.High {
		return
	}

	files, err := a.oldestFirst(a.now().UTC().Format(dayLayout))
	if err != nil {
		a.logger.Error("archive listing failed", log.Err(err))
		return
	}

	var freed int64
	for _, f := range files {
		if ctx.Err() != nil || size <= a.Low {
			break
		}
		if err := os.Remove(f.path); err != nil {
			a.logger.Error("archive remove failed", log.String("file", f.path), log.Err(err))
			continue
		}
		size -= f.size
		freed += f.size
	}
	a.removeEmptyDays()

	if freed > 0 {
		a.logger.Info("archive trimmed",
			log.String("freed", humanize.IBytes(uint64(freed))),
			log.String("remaining", humanize.IBytes(uint64(size))),
		)
	}
}

type archived struct {
	path string
	size int64
}

func (a *Archive) oldestFirst(protectedDay string) ([]archived, error) {
	days, err := dayDirectories(a.Root)
	if err != nil {
		return nil, err
	}
	var out []archived
	for _, day := range days {
		if day >= protectedDay {
			continue
		}
		ents, err := os.ReadDir(filepath.Join(a.Root, day))
		if err != nil {
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				return nil, err
			}
			out = append(out, archived{path: filepath.Join(a.Root, day, e.Name()), size: info.Size()})
		}
	}
	return out, nil
}

func (a *Archive) removeEmptyDays() {
	days, err := dayDirectories(a.Root)
	if err != nil {
		return
	}
	for _, day := range days {
		p := filepath.Join(a.Root, day)
		if ents, err := os.ReadDir(p); err == nil && len(ents) == 0 {
			_ = os.Remove(p)
		}
	}
}

func dayDirectories(root string) ([]string, error) {
	ents, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var days []string
	for _, e := range ents {
		if e.IsDir() && isDayDir(e.Name()) {
			days = append(days, e.Name())
		}
	}
	sort.Strings(days)
	return days, nil
}

func isDayDir(name string) bool {
	return len(name) == len(dayLayout) && strings.Count(name, "-") == 2
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
