package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Test   TestConfig   `mapstructure:"test"`
	Export ExportConfig `mapstructure:"export"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode Mode   `mapstructure:"mode"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite|postgres
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl_hours"`
	TeacherUser     string        `mapstructure:"teacher_user"`
	TeacherPassHash string        `mapstructure:"teacher_pass_hash"` // bcrypt; empty disables login
}

type CORSConfig struct {
	OriginsOnline  []string `mapstructure:"origins_online"`
	OriginsOffline []string `mapstructure:"origins_offline"`
}

type TestConfig struct {
	Alphabet        string `mapstructure:"alphabet"` // latin|ukrainian|a literal symbol run
	DefaultVariants int    `mapstructure:"default_variants"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"` // empty disables key workbook export
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// Load reads config.yaml from path (optional) and the TEACHERTEST_*
// environment on top of the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("TEACHERTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", string(ModeOffline))
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", 8)
	v.SetDefault("auth.teacher_user", "teacher")
	v.SetDefault("auth.teacher_pass_hash", "")
	v.SetDefault("cors.origins_online", []string{})
	v.SetDefault("cors.origins_offline", []string{"http://localhost:3000"})
	v.SetDefault("test.alphabet", "latin")
	v.SetDefault("test.default_variants", 10)
	v.SetDefault("export.dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/teachertest.log")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.console", true)

	// Short env names kept for operators; the replacer handles the rest.
	_ = v.BindEnv("server.addr", "TEACHERTEST_ADDR")
	_ = v.BindEnv("server.mode", "TEACHERTEST_MODE")
	_ = v.BindEnv("db.driver", "TEACHERTEST_DB_DRIVER")
	_ = v.BindEnv("db.dsn", "TEACHERTEST_DB_DSN")
	_ = v.BindEnv("auth.jwt_secret", "TEACHERTEST_JWT_SECRET")
	_ = v.BindEnv("auth.teacher_user", "TEACHERTEST_TEACHER_USER")
	_ = v.BindEnv("auth.teacher_pass_hash", "TEACHERTEST_TEACHER_PASS_HASH")
	_ = v.BindEnv("test.alphabet", "TEACHERTEST_ALPHABET")
	_ = v.BindEnv("export.dir", "TEACHERTEST_EXPORT_DIR")
	_ = v.BindEnv("log.level", "TEACHERTEST_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Auth.TokenTTL = cfg.Auth.TokenTTL * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("unknown mode %q", c.Server.Mode)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}
	if _, err := letters.ByName(c.Test.Alphabet); err != nil {
		return fmt.Errorf("alphabet: %w", err)
	}
	if c.Test.DefaultVariants <= 0 {
		return fmt.Errorf("default variants must be positive, got %d", c.Test.DefaultVariants)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	// Online deployments face the network; weak or missing secrets stay a
	// local-only convenience.
	if c.Server.Mode == ModeOnline && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters in online mode, got %d", len(c.Auth.JWTSecret))
	}
	return nil
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c *Config) CORSOrigins() []string {
	if c.Server.Mode == ModeOnline {
		return c.CORS.OriginsOnline
	}
	return c.CORS.OriginsOffline
}

// Alphabet resolves the configured letter table.
func (c *Config) Alphabet() letters.Alphabet {
	a, err := letters.ByName(c.Test.Alphabet)
	if err != nil {
		return letters.Latin
	}
	return a
}
