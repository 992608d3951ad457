package replay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink archives session recordings to a local directory, one file
// per session.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing under dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: create %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// Store implements Sink.
func (s *DirSink) Store(_ context.Context, sessionID string, recording []byte) error {
	path := filepath.Join(s.dir, sessionID+".replay")
	if err := os.WriteFile(path, recording, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}
