package compress

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for ffmpeg or ffprobe.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestParseProgressTime(t *testing.T) {
	tests := []struct {
		line   string
		want   time.Duration
		wantOK bool
	}{
		{"frame=  120 fps= 30 q=28.0 size=512kB time=00:00:04.00 bitrate=1048.6kbits/s", 4 * time.Second, true},
		{"size=1kB time=01:02:03.5 bitrate=", time.Hour + 2*time.Minute + 3500*time.Millisecond, true},
		{"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseProgressTime(tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestScanLinesOrCR(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader("a\rb\nc\r\nd"))
	sc.Split(scanLinesOrCR)
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	assert.Equal(t, []string{"a", "b", "c", "", "d"}, got)
}

func TestFFmpeg_Probe(t *testing.T) {
	dir := t.TempDir()
	probe := writeScript(t, dir, "ffprobe", "echo 12.500000\n")
	f := NewFFmpeg("ffmpeg", probe, "fast", nil)

	d, err := f.Probe(context.Background(), "in.mp4")
	require.NoError(t, err)
	assert.Equal(t, 12500*time.Millisecond, d)

	bad := writeScript(t, dir, "ffprobe-bad", "echo N/A\n")
	f = NewFFmpeg("ffmpeg", bad, "fast", nil)
	_, err = f.Probe(context.Background(), "in.mp4")
	assert.ErrorIs(t, err, ErrToolFailed)

	f = NewFFmpeg("ffmpeg", filepath.Join(dir, "missing-ffprobe"), "fast", nil)
	_, err = f.Probe(context.Background(), "in.mp4")
	assert.ErrorIs(t, err, ErrToolUnavailable)
}

func TestFFmpeg_Compress(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ffmpeg", `for last; do :; done
printf 'Input #0, mov\n' >&2
printf 'frame=1 time=00:00:01.00 bitrate=1\r' >&2
printf 'frame=2 time=00:00:02.50 bitrate=1\r' >&2
printf 'compressed' > "$last"
`)
	f := NewFFmpeg(script, "ffprobe", "fast", nil)
	dst := filepath.Join(dir, "out.mp4")

	var seen []time.Duration
	err := f.Compress(context.Background(), "in.mp4", dst, 28, func(d time.Duration) {
		seen = append(seen, d)
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2500 * time.Millisecond}, seen)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "compressed", string(b))
}

func TestFFmpeg_Compress_Failure(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ffmpeg", "echo 'in.mp4: Invalid data found when processing input' >&2\nexit 1\n")
	f := NewFFmpeg(script, "ffprobe", "", nil)

	err := f.Compress(context.Background(), "in.mp4", filepath.Join(dir, "out.mp4"), 28, nil)
	assert.ErrorIs(t, err, ErrToolFailed)
	assert.Contains(t, err.Error(), "Invalid data found")
}

func TestFFmpeg_Compress_Missing(t *testing.T) {
	f := NewFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg"), "ffprobe", "", nil)
	err := f.Compress(context.Background(), "in.mp4", "out.mp4", 28, nil)
	assert.ErrorIs(t, err, ErrToolUnavailable)
}

func TestFFmpeg_Available(t *testing.T) {
	dir := t.TempDir()
	ok := writeScript(t, dir, "ffmpeg", "echo 'ffmpeg version 6.1'\n")
	assert.True(t, NewFFmpeg(ok, "", "", nil).Available(context.Background()))
	assert.False(t, NewFFmpeg(filepath.Join(dir, "absent"), "", "", nil).Available(context.Background()))
}

func TestFFmpeg_Compress_OversizedOutputLine(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ffmpeg", `for last; do :; done
head -c 2097152 /dev/zero | tr '\0' 'x' >&2
printf 'frame=9 time=00:00:09.00 bitrate=1\n' >&2
printf 'compressed' > "$last"
`)
	f := NewFFmpeg(script, "ffprobe", "fast", nil)
	dst := filepath.Join(dir, "out.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, f.Compress(ctx, "in.mp4", dst, 28, nil))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "compressed", string(b))
}
