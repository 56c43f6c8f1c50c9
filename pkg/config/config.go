package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shouni/gemini-image-runner/pkg/domain"
)

const (
	EnvAPIKey         = "GOOGLE_API_KEY"
	EnvAPIKeyFallback = "GEMINI_API_KEY"
	EnvModel          = "GEMINI_IMAGE_MODEL"
	EnvOutputDir      = "GEMINI_IMAGE_OUTPUT_DIR"
	EnvLogLevel       = "GEMINI_IMAGE_LOG_LEVEL"

	DefaultOutputDir         = "output"
	DefaultReferenceMIMEType = "image/png"
	DefaultJPEGQuality       = 75
)

// ErrMissingAPIKey は認証情報が設定されていない場合のエラーです。
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY が .env ファイルまたは環境変数に設定されていません")

// Config はプロセス起動時に一度だけ読み込まれ、Runner に渡される設定です。
type Config struct {
	APIKey            string
	Model             domain.Model
	OutputDir         string
	ReferenceMIMEType string
	CompressReference bool
	JPEGQuality       int
	LogLevel          slog.Level
}

// fileConfig は YAML 設定ファイルの形式です。
type fileConfig struct {
	Model             string `yaml:"model"`
	OutputDir         string `yaml:"output_dir"`
	ReferenceMIMEType string `yaml:"reference_mime_type"`
	CompressReference bool   `yaml:"compress_reference"`
	JPEGQuality       int    `yaml:"jpeg_quality"`
	LogLevel          string `yaml:"log_level"`
}

// LoadOptions は Load の入力です。
type LoadOptions struct {
	// ConfigPath が空でなければ YAML 設定ファイルを読み込みます。
	ConfigPath string
	// EnvFiles は godotenv で読み込む .env ファイルです。空ならカレントの .env を試します。
	EnvFiles []string
}

// Default は組み込みの既定値を返します。
func Default() Config {
	return Config{
		Model:             domain.DefaultModel,
		OutputDir:         DefaultOutputDir,
		ReferenceMIMEType: DefaultReferenceMIMEType,
		JPEGQuality:       DefaultJPEGQuality,
		LogLevel:          slog.LevelInfo,
	}
}

// Load は既定値 → 設定ファイル → 環境変数の順に設定を重ねて返します。
// .env ファイルが存在しない場合は無視します。
func Load(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(opts.EnvFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env ファイルの読み込みに失敗しました", "error", err)
	}

	cfg := Default()

	if opts.ConfigPath != "" {
		if err := cfg.applyFile(opts.ConfigPath); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}

	if fc.Model != "" {
		m, err := domain.ParseModel(fc.Model)
		if err != nil {
			return err
		}
		c.Model = m
	}
	if fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if fc.ReferenceMIMEType != "" {
		c.ReferenceMIMEType = fc.ReferenceMIMEType
	}
	if fc.JPEGQuality > 0 {
		c.JPEGQuality = fc.JPEGQuality
	}
	c.CompressReference = c.CompressReference || fc.CompressReference
	if fc.LogLevel != "" {
		lvl, err := ParseLevel(fc.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = lvl
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIKey = getEnvOrDefault(EnvAPIKey, os.Getenv(EnvAPIKeyFallback))

	if v := os.Getenv(EnvModel); v != "" {
		m, err := domain.ParseModel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvModel, err)
		}
		c.Model = m
	}
	c.OutputDir = getEnvOrDefault(EnvOutputDir, c.OutputDir)
	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = lvl
	}
	return nil
}

// Validate は実行に必須の設定が揃っているかを確認します。
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ParseLevel は debug/info/warn/error を slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		if n, convErr := strconv.Atoi(s); convErr == nil {
			return slog.Level(n), nil
		}
		return 0, fmt.Errorf("不正なログレベルです: %q", s)
	}
	return lvl, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
