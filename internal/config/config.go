// Load envs from .env
// Load YAML config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`

	//Scrape behavior
	MaxResultsPerSource int  `yaml:"max_results_per_source"`
	PageDelaySeconds    int  `yaml:"page_delay_seconds"`
	RenderWaitSeconds   int  `yaml:"render_wait_seconds"`
	Headless            bool `yaml:"headless"`

	//Session retention
	RetentionDays      int `yaml:"retention_days"`
	SweepIntervalHours int `yaml:"sweep_interval_hours"`

	//Optional completion notifications
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{Headless: true}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/jobs.db"
	}
	if cfg.MaxResultsPerSource <= 0 {
		cfg.MaxResultsPerSource = 30
	}
	if cfg.PageDelaySeconds <= 0 {
		cfg.PageDelaySeconds = 2
	}
	if cfg.RenderWaitSeconds <= 0 {
		cfg.RenderWaitSeconds = 15
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.SweepIntervalHours <= 0 {
		cfg.SweepIntervalHours = 24
	}

	return cfg
}

func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySeconds) * time.Second
}

func (c *Config) RenderWaitMs() float64 {
	return float64(c.RenderWaitSeconds * 1000)
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalHours) * time.Hour
}
