package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "/etc/diskwatch/diskwatch.yaml"

// Mail holds the alert delivery endpoint. User and Password can come from the
// environment instead of the file so credentials stay out of version control.
type Mail struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Config is the explicit configuration for one run, constructed once at
// startup and passed by reference into every component that needs it. There
// is no ambient or global lookup.
type Config struct {
	// LogFile is the log file to scan for disk errors. Empty means query
	// the kernel journal instead.
	LogFile string `yaml:"log_file,omitempty"`
	// JournalCommand overrides the journal query command line. Split with
	// shell quoting rules before execution.
	JournalCommand string `yaml:"journal_command,omitempty"`
	// EnvFile is an optional dotenv file loaded before reading the
	// credential environment variables.
	EnvFile string `yaml:"env_file,omitempty"`
	Mail    Mail   `yaml:"mail"`
}

// Load reads the configuration file at path. A missing file is the one fatal
// condition of the whole program; the returned error carries the instruction
// the user needs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w (create one based on diskwatch.example.yaml)", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %q: %w", path, err)
	}

	if cfg.EnvFile != "" {
		// Best effort, the variables may already be in the environment.
		_ = godotenv.Load(cfg.EnvFile)
	}
	if v := os.Getenv("DISKWATCH_SMTP_USER"); v != "" {
		cfg.Mail.User = v
	}
	if v := os.Getenv("DISKWATCH_SMTP_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}

	return cfg, nil
}
