package compress

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ffmpegTimeRegex = regexp.MustCompile(`time=(\d+):(\d+):(\d+\.?\d*)`)

// stderrTailLines is how much encoder output is kept for error messages.
const stderrTailLines = 8

// FFmpeg runs the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	preset      string
	log         *slog.Logger
}

func NewFFmpeg(ffmpegPath, ffprobePath, preset string, log *slog.Logger) *FFmpeg {
	if log == nil {
		log = slog.Default()
	}
	if preset == "" {
		preset = "medium"
	}
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		preset:      preset,
		log:         log.With("component", "ffmpeg"),
	}
}

var _ VideoCompressor = (*FFmpeg)(nil)

func (f *FFmpeg) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, f.ffmpegPath, "-version").Run() == nil
}

func (f *FFmpeg) Probe(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		if missingBinary(err) {
			return 0, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
		}
		return 0, fmt.Errorf("%w: ffprobe: %v", ErrToolFailed, err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("%w: unreadable duration %q", ErrToolFailed, strings.TrimSpace(string(out)))
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (f *FFmpeg) Compress(ctx context.Context, src, dst string, crf int, progress ProgressFunc) error {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-hide_banner", "-nostdin",
		"-i", src,
		"-crf", strconv.Itoa(crf),
		"-preset", f.preset,
		"-y", dst,
	)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		if missingBinary(err) {
			return fmt.Errorf("%w: %v", ErrToolUnavailable, err)
		}
		return fmt.Errorf("%w: start: %v", ErrToolFailed, err)
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrCR)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if elapsed, ok := ParseProgressTime(line); ok {
			if progress != nil {
				progress(elapsed)
			}
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		f.log.Warn("ffmpeg output unreadable", "src", src, "error", err)
	}
	// Wait closes the pipe, so ffmpeg must not be left blocked on a full one.
	io.Copy(io.Discard, stderr)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrToolFailed, err, strings.Join(tail, " | "))
	}
	f.log.Debug("ffmpeg finished", "src", src, "dst", dst, "crf", crf)
	return nil
}

func missingBinary(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

// ParseProgressTime extracts the time= marker of an ffmpeg status line.
func ParseProgressTime(line string) (time.Duration, bool) {
	m := ffmpegTimeRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.ParseFloat(m[3], 64)
	total := float64(h)*3600 + float64(mins)*60 + sec
	return time.Duration(total * float64(time.Second)), true
}

// scanLinesOrCR splits on \n or \r, since ffmpeg rewrites its status line with \r.
func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
