package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/savage13/fern/internal/dialect"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/pkg/log"
)

// CheckpointFile implements ports.Checkpointer using a request file.
// The file is the same text dialect the document was parsed from.
type CheckpointFile struct {
	path   string
	logger log.Logger
}

// NewCheckpointFile creates a checkpoint stored at path.
func NewCheckpointFile(path string, logger log.Logger) *CheckpointFile {
	return &CheckpointFile{path: path, logger: log.OrNoop(logger)}
}

// Load parses the checkpoint file.
// Returns a nil document and nil error if the file does not exist or holds
// no data center blocks.
func (c *CheckpointFile) Load(ctx context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	doc, _, err := dialect.NewParser(c.logger).Parse(bytes.NewReader(data))
	return doc, err
}

// Save overwrites the checkpoint atomically: the document is written to a
// temporary file in the same directory which then replaces the target.
// Save does not observe ctx so that an interrupted run still records the
// attempt it just finished.
func (c *CheckpointFile) Save(ctx context.Context, doc *domain.Document) error {
	var buf bytes.Buffer
	if err := dialect.NewWriter(false).Write(&buf, doc); err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(c.fileMode()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return err
	}
	c.logger.Debug("checkpoint saved",
		log.String("path", c.path),
		log.Int("pending", doc.Pending()),
	)
	return nil
}

// fileMode returns the mode of the existing checkpoint, or 0644 for a new one.
func (c *CheckpointFile) fileMode() os.FileMode {
	if info, err := os.Stat(c.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
