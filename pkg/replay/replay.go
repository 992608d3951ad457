// Package replay records the patch frames a session sent, so a
// session's whole mutation stream can be replayed against a fresh
// client when debugging. Recordings are archived through a pluggable
// sink; S3Sink ships them to an S3 bucket.
package replay

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"
)

// Recorder accumulates the encoded patch frames of one session, in
// send order. It is used from the session's own goroutine and needs no
// locking.
type Recorder struct {
	sessionID string
	started   time.Time
	frames    [][]byte
	bytes     int
	maxBytes  int
}

// NewRecorder creates a recorder for one session. maxBytes bounds the
// recording; once exceeded, the oldest frames are dropped (the tail of
// a long session is usually what matters).
func NewRecorder(sessionID string, maxBytes int) *Recorder {
	return &Recorder{sessionID: sessionID, started: time.Now(), maxBytes: maxBytes}
}

// Append records one encoded frame.
func (r *Recorder) Append(frame []byte) {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	r.frames = append(r.frames, buf)
	r.bytes += len(buf)
	for r.maxBytes > 0 && r.bytes > r.maxBytes && len(r.frames) > 1 {
		r.bytes -= len(r.frames[0])
		r.frames = r.frames[1:]
	}
}

// FrameCount returns the number of recorded frames.
func (r *Recorder) FrameCount() int { return len(r.frames) }

// Marshal serializes the recording: each frame is length-prefixed with
// a big-endian uint32.
func (r *Recorder) Marshal() []byte {
	var b bytes.Buffer
	var lenBuf [4]byte
	for _, f := range r.frames {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(f)))
		b.Write(lenBuf[:])
		b.Write(f)
	}
	return b.Bytes()
}

// Unmarshal splits a serialized recording back into frames.
func Unmarshal(data []byte) ([][]byte, error) {
	var frames [][]byte
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("replay: truncated length prefix")
		}
		n := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < n {
			return nil, fmt.Errorf("replay: truncated frame: want %d bytes, have %d", n, len(data))
		}
		frames = append(frames, data[:n])
		data = data[n:]
	}
	return frames, nil
}

// Sink stores finished recordings.
type Sink interface {
	Store(ctx context.Context, sessionID string, recording []byte) error
}

// Archiver pairs a sink with the policy of when and how to archive.
type Archiver struct {
	sink     Sink
	logger   *slog.Logger
	maxBytes int
	timeout  time.Duration
}

// NewArchiver creates an archiver storing recordings in sink.
// maxBytes bounds each session's recording (0 means unbounded).
func NewArchiver(sink Sink, logger *slog.Logger, maxBytes int) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{sink: sink, logger: logger, maxBytes: maxBytes, timeout: 30 * time.Second}
}

// Recorder creates the recorder for one session.
func (a *Archiver) Recorder(sessionID string) *Recorder {
	return NewRecorder(sessionID, a.maxBytes)
}

// Archive stores a finished recording. Failures are logged, not
// returned: archiving is best-effort and must never take a session
// teardown down with it.
func (a *Archiver) Archive(rec *Recorder) {
	if rec == nil || rec.FrameCount() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.sink.Store(ctx, rec.sessionID, rec.Marshal()); err != nil {
		a.logger.Error("replay archive failed",
			"session_id", rec.sessionID,
			"frames", rec.FrameCount(),
			"error", err)
		return
	}
	a.logger.Debug("replay archived",
		"session_id", rec.sessionID,
		"frames", rec.FrameCount())
}
