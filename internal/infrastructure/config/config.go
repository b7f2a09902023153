package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings sourced from the environment.
// Interview-domain settings (types, levels, weights, media limits) live in
// the YAML document loaded by LoadInterview.
type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Hosted LLM endpoint (OpenAI-compatible), e.g. Groq.
	LLMURL          string // base URL, e.g. "https://api.groq.com/openai"
	LLMAPIKey       string
	LLMModel        string // chat model, e.g. "llama-3.3-70b-versatile"
	TranscribeModel string // speech-to-text model, e.g. "whisper-large-v3"
	LLMTimeout      time.Duration
	LLMMaxAttempts  int // attempts per completion, including the first

	// Archive database for completed interviews.
	ArchivePath string

	// Optional override for the embedded interview config.
	InterviewConfigPath string

	// External media tooling.
	FFmpegPath  string
	FFprobePath string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:       getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:     getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		LLMURL:              getenvDefault("LLM_URL", "https://api.groq.com/openai"),
		LLMAPIKey:           mustGetenv("LLM_API_KEY"),
		LLMModel:            getenvDefault("LLM_MODEL", "llama-3.3-70b-versatile"),
		TranscribeModel:     getenvDefault("TRANSCRIBE_MODEL", "whisper-large-v3"),
		LLMTimeout:          getDurationDefault("LLM_TIMEOUT", 30*time.Second),
		LLMMaxAttempts:      getIntDefault("LLM_MAX_ATTEMPTS", 2),
		ArchivePath:         getenvDefault("ARCHIVE_PATH", "interviews.db"),
		InterviewConfigPath: os.Getenv("INTERVIEW_CONFIG"),
		FFmpegPath:          getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:         getenvDefault("FFPROBE_PATH", "ffprobe"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}
