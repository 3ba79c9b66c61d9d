package config

import (
	"os"
	"path/filepath"
	"strconv"

	"bloodsim/internal/distribution"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Workbook file names used when no env override is present, one per
// blood group.
var defaultWorkbooks = map[distribution.Category]string{
	distribution.CategoryA:  "prob_a.xlsx",
	distribution.CategoryB:  "prob_b.xlsx",
	distribution.CategoryAB: "prob_ab.xlsx",
	distribution.CategoryO:  "prob_o.xlsx",
}

var workbookEnvKeys = map[distribution.Category]string{
	distribution.CategoryA:  "DIST_FILE_A",
	distribution.CategoryB:  "DIST_FILE_B",
	distribution.CategoryAB: "DIST_FILE_AB",
	distribution.CategoryO:  "DIST_FILE_O",
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath       string
	LogDir         string
	HTTPAddr       string
	DefaultPeriods int
	// Workbooks maps each blood group to the absolute path of its
	// distribution workbook.
	Workbooks map[distribution.Category]string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first; stdio servers
	// are usually launched with an arbitrary working directory.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to the current working directory (go run, development).
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	workbooks := make(map[distribution.Category]string, len(distribution.Categories))
	for _, cat := range distribution.Categories {
		name := getEnv(workbookEnvKeys[cat], defaultWorkbooks[cat])
		if !filepath.IsAbs(name) {
			name = filepath.Join(dataPath, name)
		}
		workbooks[cat] = name
	}

	periods, err := strconv.Atoi(getEnv("DEFAULT_PERIODS", "84"))
	if err != nil || periods <= 0 {
		log.Warn().Str("value", os.Getenv("DEFAULT_PERIODS")).Msg("Invalid DEFAULT_PERIODS, using 84")
		periods = 84
	}

	return &AppConfig{
		DataPath:       dataPath,
		LogDir:         logDir,
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DefaultPeriods: periods,
		Workbooks:      workbooks,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
