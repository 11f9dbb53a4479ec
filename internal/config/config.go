// ABOUTME: Environment-driven configuration for the couch client
// ABOUTME: Loads .env files with godotenv and applies defaults
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds settings read from the environment. Command-line flags
// override these in main.
type Config struct {
	APIKey          string
	Language        string
	Voice           string
	Backend         string
	AnalysisModel   string
	SpeechModel     string
	SpeechTransport string // "rest", "live" or "off"
	LiveModel       string
	Exclusive       bool
	SaveAudioDir    string
	LogFile         string
	Volume          int
}

// Load reads the given .env files (default: .env) and the process
// environment. Missing files are not an error.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: failed to load %s: %v", f, err)
		}
	}

	cfg := Config{
		APIKey:          firstEnv("API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		Language:        getEnv("COUCH_LANGUAGE", "zh"),
		Voice:           getEnv("COUCH_VOICE", "Charon"),
		Backend:         getEnv("COUCH_AUDIO_BACKEND", "oto"),
		AnalysisModel:   os.Getenv("COUCH_ANALYSIS_MODEL"),
		SpeechModel:     os.Getenv("COUCH_SPEECH_MODEL"),
		SpeechTransport: getEnv("COUCH_SPEECH_TRANSPORT", "rest"),
		LiveModel:       os.Getenv("COUCH_LIVE_MODEL"),
		Exclusive:       getBool("COUCH_EXCLUSIVE_PLAYBACK", false),
		SaveAudioDir:    os.Getenv("COUCH_SAVE_AUDIO"),
		LogFile:         getEnv("COUCH_LOG_FILE", "couch.log"),
		Volume:          getInt("COUCH_VOLUME", 100),
	}

	if cfg.APIKey == "" {
		log.Printf("Warning: no API key set (API_KEY, GEMINI_API_KEY or GOOGLE_API_KEY)")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" && value != "undefined" {
			return value
		}
	}
	return ""
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
