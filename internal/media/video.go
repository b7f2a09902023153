package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/interviewlab/backend/internal/llm"
)

// NeutralDescriptor is used when probing fails. DescribeVideo never reports
// an error; a missing descriptor must not block the evaluation.
const NeutralDescriptor = "No video analysis data is available for this recording. " +
	"Assume a neutral, average on-camera presence."

// extractAudio pulls the audio track out of a video as 16 kHz mono WAV,
// the input format the speech-to-text endpoint handles best.
func (n *Normalizer) extractAudio(ctx context.Context, videoPath, audioPath string) error {
	cmd := exec.CommandContext(ctx, n.ffmpegPath,
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-y", audioPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		reason := "audio extraction failed"
		if strings.Contains(string(out), "does not contain any stream") ||
			strings.Contains(string(out), "Output file does not contain any stream") {
			reason = "no audio track found in video"
		}
		return &llm.TranscriptionError{Reason: reason, Wrapped: err}
	}
	return nil
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// describeVideo probes the recording and renders the facts into the text
// fed to the body-language prompt. Best-effort: any failure yields the
// neutral descriptor.
func (n *Normalizer) describeVideo(ctx context.Context, videoPath string) string {
	cmd := exec.CommandContext(ctx, n.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		n.logger.Warn("video probe failed", "error", err)
		return NeutralDescriptor
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		n.logger.Warn("video probe output unreadable", "error", err)
		return NeutralDescriptor
	}

	var b strings.Builder
	b.WriteString("Recording facts extracted from the candidate's video:\n")

	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil && d > 0 {
		fmt.Fprintf(&b, "- Duration: %.1f seconds\n", d)
	}

	hasVideo := false
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			hasVideo = true
			if s.Width > 0 && s.Height > 0 {
				fmt.Fprintf(&b, "- Resolution: %dx%d\n", s.Width, s.Height)
			}
			if fps := parseFrameRate(s.AvgFrameRate); fps > 0 {
				fmt.Fprintf(&b, "- Frame rate: %.0f fps\n", fps)
			}
		case "audio":
			b.WriteString("- Audio track present\n")
		}
	}
	if !hasVideo {
		return NeutralDescriptor
	}

	b.WriteString("The candidate recorded themselves answering an interview question on camera. " +
		"Frame-level pose data is not available; base the assessment on a typical seated webcam recording of this length.")
	return b.String()
}

// parseFrameRate parses ffprobe's "30000/1001" style rational frame rate.
func parseFrameRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
