// Package media validates uploaded answers and turns them into plain text:
// a transcript for audio and video, plus a best-effort body-language
// descriptor for video. Heavy lifting is delegated to the hosted
// speech-to-text endpoint and the external ffmpeg/ffprobe binaries.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/infrastructure/config"
)

var (
	// ErrUnsupportedFormat rejects files whose extension is outside the
	// modality's allow-list, regardless of size.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge rejects files over the modality's size ceiling,
	// regardless of extension.
	ErrFileTooLarge = errors.New("file exceeds size limit")
	// ErrTextModality is returned when media processing is requested for a
	// text response.
	ErrTextModality = errors.New("text responses carry no media")
)

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Normalizer validates uploads and extracts transcripts and descriptors.
type Normalizer struct {
	cfg         config.MediaConfig
	transcriber Transcriber
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(cfg config.MediaConfig, t Transcriber, ffmpegPath, ffprobePath string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		cfg:         cfg,
		transcriber: t,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logger,
	}
}

// Validate checks the file's extension against the modality's allow-list and
// its size against the modality's ceiling. It runs before any transcription
// or probing; violations short-circuit the pipeline.
func (n *Normalizer) Validate(filename string, size int64, modality interview.Modality) error {
	var formats []string
	var maxBytes int64

	switch modality {
	case interview.ModalityAudio:
		formats = n.cfg.AudioFormats
		maxBytes = n.cfg.MaxAudioSizeMB << 20
	case interview.ModalityVideo:
		formats = n.cfg.VideoFormats
		maxBytes = n.cfg.MaxVideoSizeMB << 20
	case interview.ModalityText:
		return ErrTextModality
	default:
		return fmt.Errorf("unknown modality %q", modality)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formats, ext) {
		return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFormat, ext, strings.Join(formats, ", "))
	}
	if size > maxBytes {
		return fmt.Errorf("%w: %d MB ceiling for %s", ErrFileTooLarge, maxBytes>>20, modality)
	}
	return nil
}

// TranscribeAudio sends an uploaded audio file to the speech-to-text
// endpoint. The endpoint accepts every format on the audio allow-list
// directly, so no local conversion happens.
func (n *Normalizer) TranscribeAudio(ctx context.Context, filename string, data []byte) (string, error) {
	transcript, err := n.transcriber.Transcribe(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	n.logger.Info("audio transcribed", "file", filename, "chars", len(transcript))
	return transcript, nil
}

// ProcessVideo extracts the audio track of an uploaded video, transcribes
// it, and probes the video for a body-language descriptor. The transcript
// is required (its absence is an error); the descriptor is best-effort and
// falls back to a neutral text. All intermediate files live in a scoped
// temp directory removed on every exit path.
func (n *Normalizer) ProcessVideo(ctx context.Context, filename string, data []byte) (transcript, descriptor string, err error) {
	dir, err := os.MkdirTemp("", "interview-video-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	videoPath := filepath.Join(dir, "upload"+strings.ToLower(filepath.Ext(filename)))
	if err := os.WriteFile(videoPath, data, 0o600); err != nil {
		return "", "", fmt.Errorf("write temp video: %w", err)
	}

	descriptor = n.describeVideo(ctx, videoPath)

	audioPath := filepath.Join(dir, "audio.wav")
	if err := n.extractAudio(ctx, videoPath, audioPath); err != nil {
		return "", descriptor, err
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", descriptor, fmt.Errorf("open extracted audio: %w", err)
	}
	defer audio.Close()

	transcript, err = n.transcriber.Transcribe(ctx, "audio.wav", audio)
	if err != nil {
		return "", descriptor, err
	}
	n.logger.Info("video transcribed", "file", filename, "chars", len(transcript))
	return transcript, descriptor, nil
}
