package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCategoryDirs maps the studio's content folders to manifest categories.
const DefaultCategoryDirs = "residential=3_RESIDENTIAL,unbuilt=6_UNBUILT (ARCHIVE)"

// CategoryDir binds a top-level content directory to the category its projects get.
type CategoryDir struct {
	Dir      string
	Category string
}

type Config struct {
	ContentRoot  string
	OutputDir    string
	DataDir      string
	ManifestName string
	URLPrefix    string
	Categories   []CategoryDir
	MaxWidth     int
	MaxHeight    int
	ThumbWidth   int
	ThumbHeight  int
	Workers      int           // Liczba równoległych transkodowań w projekcie (1 = sekwencyjnie)
	FileTimeout  time.Duration // Limit czasu na jeden plik źródłowy
	CatalogPath  string        // Pusty = katalog SQLite wyłączony
	LogDirectory string        // Pusty = logi tylko na konsolę
	Force        bool
}

// Load reads configuration from the environment, after loading envFiles
// (or ".env" when none are given) if they exist.
func Load(envFiles ...string) *Config {
	// Brak pliku .env nie jest błędem
	_ = godotenv.Load(envFiles...)

	return &Config{
		ContentRoot:  getEnv("CONTENT_ROOT", filepath.Join(".", "content")),
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(".", "public", "projects")),
		DataDir:      getEnv("DATA_DIR", filepath.Join(".", "src", "data")),
		ManifestName: getEnv("MANIFEST_NAME", "projects.json"),
		URLPrefix:    getEnv("URL_PREFIX", "/projects"),
		Categories:   ParseCategoryDirs(getEnv("CATEGORY_DIRS", DefaultCategoryDirs)),
		MaxWidth:     getEnvAsInt("MAX_WIDTH", 1920),
		MaxHeight:    getEnvAsInt("MAX_HEIGHT", 1080),
		ThumbWidth:   getEnvAsInt("THUMB_WIDTH", 600),
		ThumbHeight:  getEnvAsInt("THUMB_HEIGHT", 400),
		Workers:      getEnvAsInt("PROCESSING_WORKERS", 1),
		FileTimeout:  time.Duration(getEnvAsInt64("FILE_TIMEOUT_SEC", 120)) * time.Second,
		CatalogPath:  getEnv("CATALOG_DB", ""),
		LogDirectory: getEnv("LOG_DIR", ""),
		Force:        getEnvAsBool("FORCE", false),
	}
}

// ManifestPath returns the full path of the manifest file.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.DataDir, c.ManifestName)
}

// ParseCategoryDirs parses "category=dir,category=dir" pairs, keeping their order.
// Malformed pairs are ignored.
func ParseCategoryDirs(value string) []CategoryDir {
	var dirs []CategoryDir
	for _, pair := range strings.Split(value, ",") {
		category, dir, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		category = strings.TrimSpace(category)
		dir = strings.TrimSpace(dir)
		if category == "" || dir == "" {
			continue
		}
		dirs = append(dirs, CategoryDir{Dir: dir, Category: category})
	}
	return dirs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
