package replay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderRoundtrip(t *testing.T) {
	r := NewRecorder("s1", 0)
	frames := [][]byte{{0x01, 0x02}, {0x03}, {}}
	for _, f := range frames {
		r.Append(f)
	}
	if r.FrameCount() != 3 {
		t.Fatalf("FrameCount() = %d, want 3", r.FrameCount())
	}

	got, err := Unmarshal(r.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("frames = %d, want 3", len(got))
	}
	for i := range frames {
		if !bytes.Equal(got[i], frames[i]) {
			t.Errorf("frame %d = %v, want %v", i, got[i], frames[i])
		}
	}
}

func TestRecorderCopiesFrames(t *testing.T) {
	r := NewRecorder("s1", 0)
	buf := []byte{1, 2, 3}
	r.Append(buf)
	buf[0] = 99
	got, _ := Unmarshal(r.Marshal())
	if got[0][0] != 1 {
		t.Error("recorder aliased the caller's buffer")
	}
}

func TestRecorderByteCapDropsOldest(t *testing.T) {
	r := NewRecorder("s1", 10)
	r.Append(bytes.Repeat([]byte{1}, 6))
	r.Append(bytes.Repeat([]byte{2}, 6))
	if r.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", r.FrameCount())
	}
	got, _ := Unmarshal(r.Marshal())
	if got[0][0] != 2 {
		t.Error("newest frame was dropped instead of the oldest")
	}
}

func TestRecorderCapKeepsAtLeastOneFrame(t *testing.T) {
	r := NewRecorder("s1", 4)
	r.Append(bytes.Repeat([]byte{7}, 100))
	if r.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", r.FrameCount())
	}
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	r := NewRecorder("s1", 0)
	r.Append([]byte{1, 2, 3, 4})
	data := r.Marshal()
	if _, err := Unmarshal(data[:len(data)-2]); err == nil {
		t.Error("truncated recording unmarshalled without error")
	}
	if _, err := Unmarshal(data[:2]); err == nil {
		t.Error("truncated length prefix unmarshalled without error")
	}
}

type fakeSink struct {
	sessionID string
	recording []byte
	err       error
	calls     int
}

func (s *fakeSink) Store(_ context.Context, sessionID string, recording []byte) error {
	s.calls++
	s.sessionID = sessionID
	s.recording = recording
	return s.err
}

func TestArchiverStoresRecording(t *testing.T) {
	sink := &fakeSink{}
	a := NewArchiver(sink, nil, 0)
	rec := a.Recorder("session-7")
	rec.Append([]byte{0xAA})

	a.Archive(rec)
	if sink.calls != 1 {
		t.Fatalf("Store called %d times, want 1", sink.calls)
	}
	if sink.sessionID != "session-7" {
		t.Errorf("sessionID = %q, want session-7", sink.sessionID)
	}
	frames, err := Unmarshal(sink.recording)
	if err != nil || len(frames) != 1 {
		t.Errorf("stored recording = %v frames, err %v", len(frames), err)
	}
}

func TestArchiverSkipsEmptyRecordings(t *testing.T) {
	sink := &fakeSink{}
	a := NewArchiver(sink, nil, 0)
	a.Archive(a.Recorder("empty"))
	a.Archive(nil)
	if sink.calls != 0 {
		t.Errorf("Store called %d times for empty recordings, want 0", sink.calls)
	}
}

func TestArchiverSwallowsSinkErrors(t *testing.T) {
	sink := &fakeSink{err: errors.New("bucket gone")}
	a := NewArchiver(sink, nil, 0)
	rec := a.Recorder("s")
	rec.Append([]byte{1})
	a.Archive(rec) // must not panic or propagate
	if sink.calls != 1 {
		t.Errorf("Store called %d times, want 1", sink.calls)
	}
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(filepath.Join(dir, "replays"))
	if err != nil {
		t.Fatalf("NewDirSink: %v", err)
	}
	if err := sink.Store(context.Background(), "abc", []byte{1, 2}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "replays", "abc.replay"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2}) {
		t.Errorf("stored = %v, want [1 2]", data)
	}
}
