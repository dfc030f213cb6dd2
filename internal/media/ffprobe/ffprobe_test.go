package ffprobe

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", BitRate: "352800"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "8.26",
			Size:     "729054",
			BitRate:  "705642",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 8.26 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 729054 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BytesPerSecond() != 44100 {
		t.Fatalf("expected stream byte rate 44100, got %v", result.BytesPerSecond())
	}
}

func TestBytesPerSecondFallsBackToFormat(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio"}},
		Format:  Format{BitRate: "64000"},
	}
	if got := result.BytesPerSecond(); got != 8000 {
		t.Fatalf("expected 8000, got %v", got)
	}
	if got := (Result{}).BytesPerSecond(); got != 0 {
		t.Fatalf("expected 0 without any bit rate, got %v", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BytesPerSecond() != 0 {
		t.Fatalf("expected byte rate 0, got %v", result.BytesPerSecond())
	}
}

func TestInspectDecodesStubOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	payload, err := json.Marshal(Result{
		Streams: []Stream{{Index: 0, CodecName: "pcm_s16le", CodecType: "audio", BitRate: "705600"}},
		Format:  Format{FormatName: "wav", Size: "88244", Duration: "1.0"},
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + string(payload) + "\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "/tmp/clip.wav")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.SizeBytes() != 88244 || result.BytesPerSecond() != 88200 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
