package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

const (
	DefaultAPIBaseURL = "https://eskimo-api.onrender.com"
	DefaultPrinterURL = "http://127.0.0.1:7777"
)

type Config struct {
	APIBaseURL     string        `koanf:"api_base_url"`
	PrinterURL     string        `koanf:"printer_url"`
	SessionFile    string        `koanf:"session_file"`
	ReportDir      string        `koanf:"report_dir"`
	Timeout        time.Duration `koanf:"timeout"`
	PollInterval   time.Duration `koanf:"poll_interval"`
	GuardInterval  time.Duration `koanf:"guard_interval"`
	ReconcileLimit int           `koanf:"reconcile_limit"`
	LogFile        string        `koanf:"log_file"`
	Debug          bool          `koanf:"debug"`
}

func New() (Config, error) {
	cfg := Default()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set in the
// environment, .env or config files.
func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		PrinterURL:     DefaultPrinterURL,
		SessionFile:    "./.eskimo-session.json",
		ReportDir:      ".",
		Timeout:        20 * time.Second,
		PollInterval:   10 * time.Second,
		GuardInterval:  300 * time.Millisecond,
		ReconcileLimit: 5,
		LogFile:        "./eskimo-admin.log",
		Debug:          false,
	}
}
