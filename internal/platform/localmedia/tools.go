package localmedia

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sagar803/real-estate-dashboard/internal/platform/ctxutil"
	"github.com/sagar803/real-estate-dashboard/internal/platform/envutil"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// Tools shells out to ffmpeg/ffprobe for audio extraction, duration
// probing and keyframe sampling. All work happens in a scratch dir that
// the caller cleans up via Cleanup.
type Tools interface {
	ExtractAudioWAV(ctx context.Context, videoPath string) (string, error)
	ProbeDurationSeconds(ctx context.Context, mediaPath string) (float64, error)
	SampleFrames(ctx context.Context, videoPath string, intervalSec int, maxFrames int) ([]string, error)
	WriteTempFile(data []byte, ext string) (string, error)
	Cleanup(paths ...string)
}

type tools struct {
	log        *logger.Logger
	ffmpegBin  string
	ffprobeBin string
	workDir    string
	timeout    time.Duration
}

func NewTools(log *logger.Logger) (Tools, error) {
	ffmpegBin := envutil.GetEnv("FFMPEG_BIN", "ffmpeg", log)
	ffprobeBin := envutil.GetEnv("FFPROBE_BIN", "ffprobe", log)

	workDir := envutil.GetEnv("MEDIA_WORK_DIR", "", log)
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "media-tools")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media work dir %q: %w", workDir, err)
	}

	timeoutSec := envutil.GetEnvAsInt("MEDIA_TOOL_TIMEOUT_SECONDS", 600, log)

	return &tools{
		log:        log.With("service", "MediaTools"),
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		workDir:    workDir,
		timeout:    time.Duration(timeoutSec) * time.Second,
	}, nil
}

func (t *tools) run(ctx context.Context, bin string, args ...string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > 2000 {
			tail = tail[len(tail)-2000:]
		}
		return "", fmt.Errorf("%s failed: %w; stderr: %s", bin, err, tail)
	}
	return stdout.String(), nil
}

// WriteTempFile persists data under a content-addressed name so repeat
// uploads of the same bytes reuse the same scratch file.
func (t *tools) WriteTempFile(data []byte, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:16]) + ext
	path := filepath.Join(t.workDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return path, nil
}

func (t *tools) ExtractAudioWAV(ctx context.Context, videoPath string) (string, error) {
	outPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"

	_, err := t.run(ctx, t.ffmpegBin,
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outPath,
	)
	if err != nil {
		return "", err
	}

	info, statErr := os.Stat(outPath)
	if statErr != nil {
		return "", fmt.Errorf("audio output missing: %w", statErr)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("audio output is empty")
	}
	return outPath, nil
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (t *tools) ProbeDurationSeconds(ctx context.Context, mediaPath string) (float64, error) {
	out, err := t.run(ctx, t.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		mediaPath,
	)
	if err != nil {
		return 0, err
	}

	var parsed ffprobeFormat
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", parsed.Format.Duration, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("non-positive media duration %f", dur)
	}
	return dur, nil
}

func (t *tools) SampleFrames(ctx context.Context, videoPath string, intervalSec int, maxFrames int) ([]string, error) {
	if intervalSec <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", intervalSec)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	frameDir := filepath.Join(t.workDir, base+"-frames")
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame dir: %w", err)
	}

	pattern := filepath.Join(frameDir, "frame-%04d.jpg")
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%d", intervalSec),
		"-q:v", "4",
	}
	if maxFrames > 0 {
		args = append(args, "-frames:v", strconv.Itoa(maxFrames))
	}
	args = append(args, pattern)

	if _, err := t.run(ctx, t.ffmpegBin, args...); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(frameDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame dir: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		frames = append(frames, filepath.Join(frameDir, e.Name()))
	}
	sort.Strings(frames)

	if maxFrames > 0 && len(frames) > maxFrames {
		frames = frames[:maxFrames]
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames produced for %s", videoPath)
	}
	return frames, nil
}

func (t *tools) Cleanup(paths ...string) {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			t.log.Warn("Failed to clean up media scratch path", "path", p, "error", err.Error())
		}
	}
}
