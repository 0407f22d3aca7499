package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/rs/zerolog/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoAnalysis is what the analyzer learned about an uploaded answer video.
// Frames are JPEG encoded and only kept as artifacts; they never affect the score.
type VideoAnalysis struct {
	Frames   [][]byte
	Duration float64
	Width    int
	Height   int
	Format   string
}

type VideoAnalysisService interface {
	Analyze(ctx context.Context, media []byte) (*VideoAnalysis, error)
}

type ffmpegVideoAnalysisService struct {
	maxFrames int
	frameRate string
	ffmpegBin string
}

func NewVideoAnalysisService(cfg *config.Config) VideoAnalysisService {
	maxFrames := cfg.Media.MaxFrames
	if maxFrames <= 0 {
		maxFrames = 5
	}
	frameRate := cfg.Media.FrameRate
	if frameRate == "" {
		frameRate = "1"
	}
	return &ffmpegVideoAnalysisService{maxFrames: maxFrames, frameRate: frameRate, ffmpegBin: "ffmpeg"}
}

func (s *ffmpegVideoAnalysisService) Analyze(ctx context.Context, media []byte) (*VideoAnalysis, error) {
	if len(media) == 0 {
		return nil, apperr.Validationf("video is empty")
	}

	dir, err := os.MkdirTemp("", "mockprep-video-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input")
	if err := os.WriteFile(input, media, 0o600); err != nil {
		return nil, fmt.Errorf("write video to temp file: %w", err)
	}

	probeJSON, err := ffmpeg.ProbeWithTimeout(input, remaining(ctx), ffmpeg.KwArgs{})
	if err != nil {
		return nil, s.fail(ctx, err, "probe video")
	}
	analysis, err := parseProbe(probeJSON)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, err, "parse video metadata")
	}

	args := ffmpeg.Input(input).
		Output(filepath.Join(dir, "frame_%03d.jpg"), ffmpeg.KwArgs{
			"vf":      "fps=" + s.frameRate,
			"vframes": strconv.Itoa(s.maxFrames),
			"q:v":     "2",
		}).
		OverWriteOutput().
		GetArgs()

	cmd := exec.CommandContext(ctx, s.ffmpegBin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Error().Err(err).Str("ffmpeg", lastLine(string(out))).Msg("VideoAnalysis: frame extraction failed")
		return nil, s.fail(ctx, err, "extract frames")
	}

	analysis.Frames, err = readFrames(dir)
	if err != nil {
		return nil, fmt.Errorf("read extracted frames: %w", err)
	}
	return analysis, nil
}

func (s *ffmpegVideoAnalysisService) fail(ctx context.Context, err error, step string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.Wrap(apperr.External, ctxErr, "video analysis timed out during %s", step)
	}
	return apperr.Wrap(apperr.External, err, "video analysis failed to %s", step)
}

// remaining converts the ctx deadline into the timeout ffprobe expects.
// Zero means no timeout.
func remaining(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Millisecond
}

func parseProbe(probeJSON string) (*VideoAnalysis, error) {
	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		return nil, err
	}

	a := &VideoAnalysis{Format: "unknown"}
	hasVideo := false
	for _, st := range result.Streams {
		if st.CodecType == "video" {
			a.Width, a.Height = st.Width, st.Height
			hasVideo = true
			break
		}
	}
	if !hasVideo {
		return nil, errors.New("no video stream found")
	}
	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		a.Duration = d
	}
	if f, _, _ := strings.Cut(result.Format.Format, ","); f != "" {
		a.Format = f
	}
	return a, nil
}

func readFrames(dir string) ([][]byte, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	frames := make([][]byte, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, b)
	}
	return frames, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
