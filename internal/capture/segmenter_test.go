package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/audio"
)

var testStreamConfig = audio.StreamConfig{
	SampleRate:     22050,
	Channels:       1,
	FramesPerChunk: 1024,
}

func testChunk(value byte, cfg audio.StreamConfig) []byte {
	chunk := make([]byte, cfg.BytesPerChunk())
	for i := range chunk {
		chunk[i] = value
	}
	return chunk
}

func TestChunksNeeded(t *testing.T) {
	tests := []struct {
		duration    time.Duration
		sampleRate  int
		chunkFrames int
		want        int
	}{
		{460 * time.Millisecond, 22050, 1024, 10},
		{10 * time.Second, 44100, 2048, 216},
		{time.Second, 16000, 16000, 1},
		{time.Second, 16000, 15999, 2},
	}
	for _, tt := range tests {
		if got := chunksNeeded(tt.duration, tt.sampleRate, tt.chunkFrames); got != tt.want {
			t.Fatalf("chunksNeeded(%v, %d, %d) = %d, want %d", tt.duration, tt.sampleRate, tt.chunkFrames, got, tt.want)
		}
	}
}

func TestCollect_FullSegmentInOrder(t *testing.T) {
	buf := NewChunkBuffer()
	var want []byte
	for i := 0; i < 10; i++ {
		chunk := testChunk(byte(i), testStreamConfig)
		buf.Push(chunk)
		want = append(want, chunk...)
	}

	seg := NewSegmenter(buf, testStreamConfig, t.TempDir())
	segment, err := seg.Collect(context.Background(), 460*time.Millisecond)
	if err != nil {
		t.Fatalf("expected segment, got error %v", err)
	}
	if segment.Chunks != 10 {
		t.Fatalf("expected 10 chunks, got %d", segment.Chunks)
	}

	raw, err := os.ReadFile(segment.Path)
	if err != nil {
		t.Fatalf("failed to read segment artifact: %v", err)
	}
	if len(raw) != wavHeaderSize+len(want) {
		t.Fatalf("unexpected artifact size: got %d, want %d", len(raw), wavHeaderSize+len(want))
	}
	if sampleRate := binary.LittleEndian.Uint32(raw[24:28]); sampleRate != 22050 {
		t.Fatalf("unexpected sample rate in header: %d", sampleRate)
	}
	if !bytes.Equal(raw[wavHeaderSize:], want) {
		t.Fatal("artifact payload does not match chunks in push order")
	}

	segment.Remove()
	if _, err := os.Stat(segment.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected artifact to be removed, stat returned %v", err)
	}
	// removing twice must not blow up
	segment.Remove()
}

func TestCollect_NoData(t *testing.T) {
	seg := NewSegmenter(NewChunkBuffer(), testStreamConfig, t.TempDir())
	seg.popTimeout = 10 * time.Millisecond

	_, err := seg.Collect(context.Background(), 46*time.Millisecond)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestCollect_PartialSegmentOnUnderrun(t *testing.T) {
	buf := NewChunkBuffer()
	for i := 0; i < 3; i++ {
		buf.Push(testChunk(byte(i), testStreamConfig))
	}

	seg := NewSegmenter(buf, testStreamConfig, t.TempDir())
	seg.popTimeout = 10 * time.Millisecond

	segment, err := seg.Collect(context.Background(), 460*time.Millisecond)
	if err != nil {
		t.Fatalf("expected partial segment, got error %v", err)
	}
	if segment.Chunks != 3 {
		t.Fatalf("expected 3 chunks, got %d", segment.Chunks)
	}
	segment.Remove()
}

func TestCollect_CanceledContextReturnsCollectedChunks(t *testing.T) {
	buf := NewChunkBuffer()
	buf.Push(testChunk(1, testStreamConfig))

	ctx, cancel := context.WithCancel(context.Background())
	seg := NewSegmenter(buf, testStreamConfig, t.TempDir())
	seg.popTimeout = 10 * time.Millisecond

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	segment, err := seg.Collect(ctx, 10*time.Second)
	if err != nil {
		t.Fatalf("expected partial segment on cancel, got error %v", err)
	}
	if segment.Chunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", segment.Chunks)
	}
	segment.Remove()
}

func TestRemoveStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	stale := dir + "/segment_leftover.wav"
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatalf("failed to seed stale artifact: %v", err)
	}
	keep := dir + "/session_20240101_120000.json"
	if err := os.WriteFile(keep, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to seed session file: %v", err)
	}

	RemoveStaleArtifacts(dir)

	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale artifact to be removed, stat returned %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected session file to survive, stat returned %v", err)
	}
}
