package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultInterviewYAML []byte

// Interview is the domain configuration: which interviews exist, how answers
// are weighted, and what media is accepted. A misconfigured document aborts
// startup; nothing here is validated per request.
type Interview struct {
	InterviewTypes   []string `yaml:"interview_types"`
	DifficultyLevels []string `yaml:"difficulty_levels"`
	DefaultQuestions int      `yaml:"default_questions"`
	MaxQuestions     int      `yaml:"max_questions"`

	Evaluation EvaluationConfig `yaml:"evaluation"`
	Media      MediaConfig      `yaml:"media"`
}

type EvaluationConfig struct {
	FallbackScore float64                       `yaml:"fallback_score"`
	Criteria      map[string]map[string]float64 `yaml:"criteria"`
}

type MediaConfig struct {
	MaxAudioSizeMB int64    `yaml:"max_audio_size_mb"`
	MaxVideoSizeMB int64    `yaml:"max_video_size_mb"`
	AudioFormats   []string `yaml:"audio_formats"`
	VideoFormats   []string `yaml:"video_formats"`
}

// CriterionWeight pairs a criterion name with its weight for one modality.
type CriterionWeight struct {
	Name   string
	Weight float64
}

// Display order for criteria in results. Weight maps are unordered in YAML;
// results always present criteria in this sequence.
var criterionOrder = []string{
	"content_quality",
	"communication",
	"body_language",
	"vocal_delivery",
}

// LoadInterview parses and validates the interview configuration. An empty
// path uses the embedded default document.
func LoadInterview(path string) (*Interview, error) {
	data := defaultInterviewYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read interview config: %w", err)
		}
	}

	var cfg Interview
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse interview config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid interview config: %w", err)
	}
	return &cfg, nil
}

// WeightsFor returns the ordered weight table for a modality.
// The modality must be one of the configured keys ("text", "audio", "video").
func (c *Interview) WeightsFor(modality string) []CriterionWeight {
	table := c.Evaluation.Criteria[modality]
	weights := make([]CriterionWeight, 0, len(table))
	for _, name := range criterionOrder {
		if w, ok := table[name]; ok {
			weights = append(weights, CriterionWeight{Name: name, Weight: w})
		}
	}
	return weights
}

// KnownType reports whether t is a configured interview type.
func (c *Interview) KnownType(t string) bool {
	return slices.Contains(c.InterviewTypes, t)
}

// KnownDifficulty reports whether d is a configured difficulty level.
func (c *Interview) KnownDifficulty(d string) bool {
	return slices.Contains(c.DifficultyLevels, d)
}

func (c *Interview) validate() error {
	if len(c.InterviewTypes) == 0 {
		return fmt.Errorf("interview_types must not be empty")
	}
	if len(c.DifficultyLevels) == 0 {
		return fmt.Errorf("difficulty_levels must not be empty")
	}
	if c.DefaultQuestions < 1 || c.MaxQuestions < 1 || c.DefaultQuestions > c.MaxQuestions {
		return fmt.Errorf("question counts out of range: default=%d max=%d", c.DefaultQuestions, c.MaxQuestions)
	}
	if c.Evaluation.FallbackScore < 0 || c.Evaluation.FallbackScore > 100 {
		return fmt.Errorf("fallback_score %.1f outside [0,100]", c.Evaluation.FallbackScore)
	}

	for _, modality := range []string{"text", "audio", "video"} {
		table, ok := c.Evaluation.Criteria[modality]
		if !ok || len(table) == 0 {
			return fmt.Errorf("missing criteria weights for modality %q", modality)
		}
		sum := 0.0
		for name, w := range table {
			if !slices.Contains(criterionOrder, name) {
				return fmt.Errorf("unknown criterion %q for modality %q", name, modality)
			}
			if w <= 0 || w > 1 {
				return fmt.Errorf("criterion %s/%s weight %.3f outside (0,1]", modality, name, w)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-6 {
			return fmt.Errorf("criteria weights for modality %q sum to %.4f, want 1.0", modality, sum)
		}
	}

	if c.Media.MaxAudioSizeMB < 1 || c.Media.MaxVideoSizeMB < 1 {
		return fmt.Errorf("media size ceilings must be positive")
	}
	if len(c.Media.AudioFormats) == 0 || len(c.Media.VideoFormats) == 0 {
		return fmt.Errorf("media format allow-lists must not be empty")
	}
	for _, ext := range append(slices.Clone(c.Media.AudioFormats), c.Media.VideoFormats...) {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("media format %q must start with a dot", ext)
		}
	}
	return nil
}
