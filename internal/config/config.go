// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const defaultPath = "configs/config.yaml"

// Source names accepted in scrape.sources, in default run order.
var KnownSources = []string{"linkedin_jobs", "indeed", "internshala", "linkedin_posts"}

type Config struct {
	Browser  BrowserConfig  `yaml:"browser"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	AI       AIConfig       `yaml:"ai"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type BrowserConfig struct {
	Headless      *bool  `yaml:"headless"`
	UserAgent     string `yaml:"user_agent"`
	CookiesPath   string `yaml:"cookies_path"`
	Screenshots   bool   `yaml:"screenshots"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type ScrapeConfig struct {
	Sources           []string      `yaml:"sources"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	WaitTimeout       time.Duration `yaml:"wait_timeout"`
	ExtractorTimeout  time.Duration `yaml:"extractor_timeout"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	ScrollPause       time.Duration `yaml:"scroll_pause"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty *bool  `yaml:"pretty"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Load reads .env, the YAML file and the environment, in that order. An
// empty path means $JOBSCRAPER_CONFIG, then configs/config.yaml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("JOBSCRAPER_CONFIG")
	}
	if path == "" {
		path = defaultPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Warn().Str("path", path).Msg("⚠️ Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JOBSCRAPER_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBSCRAPER_HEADLESS: %w", err)
		}
		c.Browser.Headless = &b
	}
	if v := os.Getenv("JOBSCRAPER_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("JOBSCRAPER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JOBSCRAPER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	//optional AI assist
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}

	//optional telegram notifications
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Browser.Headless == nil {
		headless := true
		c.Browser.Headless = &headless
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = DefaultUserAgent
	}
	if c.Browser.CookiesPath == "" {
		c.Browser.CookiesPath = ".cookies"
	}
	if c.Browser.ScreenshotDir == "" {
		c.Browser.ScreenshotDir = "logs/screenshots"
	}

	if len(c.Scrape.Sources) == 0 {
		c.Scrape.Sources = append([]string(nil), KnownSources...)
	}
	if c.Scrape.NavigationTimeout <= 0 {
		c.Scrape.NavigationTimeout = 30 * time.Second
	}
	if c.Scrape.WaitTimeout <= 0 {
		c.Scrape.WaitTimeout = 15 * time.Second
	}
	if c.Scrape.ExtractorTimeout <= 0 {
		c.Scrape.ExtractorTimeout = 2 * time.Minute
	}
	if c.Scrape.HTTPTimeout <= 0 {
		c.Scrape.HTTPTimeout = 10 * time.Second
	}
	if c.Scrape.ScrollPause <= 0 {
		c.Scrape.ScrollPause = 3 * time.Second
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Pretty == nil {
		pretty := true
		c.Log.Pretty = &pretty
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
}

func (c *Config) Validate() error {
	for _, s := range c.Scrape.Sources {
		if !isKnownSource(s) {
			return fmt.Errorf("unknown source %q (known: %s)", s, strings.Join(KnownSources, ", "))
		}
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

func isKnownSource(name string) bool {
	for _, k := range KnownSources {
		if k == name {
			return true
		}
	}
	return false
}
