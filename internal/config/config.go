package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CredentialsFile string
	OutputFile      string
	NotionAPIURL    string
	NotionVersion   string
	PageSize        int
	MaxPages        int
	RequestTimeout  time.Duration
	FilmColorMode   string
	ColorSeed       uint64
	LogLevel        string
	LogFile         string
	LogFormat       string
}

func Load() *Config {
	return &Config{
		CredentialsFile: getEnv("CREDENTIALS_FILE", "credentials.txt"),
		OutputFile:      getEnv("OUTPUT_FILE", "output.html"),
		NotionAPIURL:    getEnv("NOTION_API_URL", "https://api.notion.com/v1"),
		NotionVersion:   getEnv("NOTION_VERSION", "2022-06-28"),
		PageSize:        getEnvAsInt("NOTION_PAGE_SIZE", 100),
		MaxPages:        getEnvAsInt("NOTION_MAX_PAGES", 0),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		FilmColorMode:   getEnv("FILM_COLOR_MODE", "random"),
		ColorSeed:       getEnvAsUint64("COLOR_SEED", 0),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsUint64(key string, defaultVal uint64) uint64 {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
