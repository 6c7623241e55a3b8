// Package config provides configuration loading and validation for the village blogger.
//
// All values come from the process environment (a .env file is loaded into it by the CLI).
// The Config is built once at startup and passed to every component constructor.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Moscow must resolve in minimal containers

	"github.com/go-playground/validator/v10"
)

// Defaults for optional settings
const (
	DefaultLogFile           = "village_agent_scheduler.log"
	DefaultLogLevel          = "info"
	DefaultDataDir           = "data"
	DefaultTimezone          = "Europe/Moscow"
	DefaultVKRequestInterval = 340 * time.Millisecond
)

// Config holds every setting the blogger needs. The env tag names the variable a field is read
// from and is also used to report missing values.
type Config struct {
	// VK
	VKAccessToken     string `env:"VK_ACCESS_TOKEN" validate:"required"`
	VKAPIVersion      string `env:"VK_API_VERSION" validate:"required"`
	VKGroupScreenName string `env:"VK_GROUP_SCREEN_NAME" validate:"required"` // news feed analysed each cycle
	VKBlogGroup       string `env:"VK_BLOG_GROUP" validate:"required"`        // our own blog, "already written" context
	VKGroupID         string `env:"VK_GROUP_ID" validate:"required"`          // wall that receives new posts

	// Telegram
	TGBotToken string `env:"TG_BOT_TOKEN" validate:"required"`
	TGChatID   string `env:"TG_CHAT_ID" validate:"required"`

	// Gemini
	GeminiAPIKey      string `env:"GEMINI_API_KEY" validate:"required"`
	GeminiTextModel   string `env:"GEMINI_TEXT_MODEL"`
	GeminiWriterModel string `env:"GEMINI_WRITER_MODEL"`
	GeminiImageModel  string `env:"GEMINI_IMAGE_MODEL"`

	// Behavior
	LogFile           string        `env:"LOG_FILE"`
	LogLevel          string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	DataDir           string        `env:"DATA_DIR" validate:"required"`
	Timezone          string        `env:"TIMEZONE" validate:"required,timezone"`
	MetricsAddr       string        `env:"METRICS_ADDR"`
	ImagePosts        bool          `env:"IMAGE_POSTS"`
	VKRequestInterval time.Duration `env:"VK_REQUEST_INTERVAL"`
}

// Getenv looks up a single environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// FromEnv loads the configuration from the process environment.
func FromEnv() (*Config, error) {
	return Load(os.Getenv)
}

// Load reads the configuration through getenv, applies defaults and validates it.
// Missing required variables are reported together in a *MissingError.
func Load(getenv Getenv) (*Config, error) {
	interval, err := getEnvDuration(getenv, "VK_REQUEST_INTERVAL", DefaultVKRequestInterval)
	if err != nil {
		return nil, err
	}
	imagePosts, err := getEnvBool(getenv, "IMAGE_POSTS", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		VKAccessToken:     strings.TrimSpace(getenv("VK_ACCESS_TOKEN")),
		VKAPIVersion:      strings.TrimSpace(getenv("VK_API_VERSION")),
		VKGroupScreenName: strings.TrimSpace(getenv("VK_GROUP_SCREEN_NAME")),
		VKBlogGroup:       strings.TrimSpace(getenv("VK_BLOG_GROUP")),
		VKGroupID:         strings.TrimSpace(getenv("VK_GROUP_ID")),
		TGBotToken:        strings.TrimSpace(getenv("TG_BOT_TOKEN")),
		TGChatID:          strings.TrimSpace(getenv("TG_CHAT_ID")),
		GeminiAPIKey:      strings.TrimSpace(getenv("GEMINI_API_KEY")),
		GeminiTextModel:   strings.TrimSpace(getenv("GEMINI_TEXT_MODEL")),
		GeminiWriterModel: strings.TrimSpace(getenv("GEMINI_WRITER_MODEL")),
		GeminiImageModel:  strings.TrimSpace(getenv("GEMINI_IMAGE_MODEL")),
		LogFile:           getEnvString(getenv, "LOG_FILE", DefaultLogFile),
		LogLevel:          strings.ToLower(getEnvString(getenv, "LOG_LEVEL", DefaultLogLevel)),
		DataDir:           getEnvString(getenv, "DATA_DIR", DefaultDataDir),
		Timezone:          getEnvString(getenv, "TIMEZONE", DefaultTimezone),
		MetricsAddr:       strings.TrimSpace(getenv("METRICS_ADDR")),
		ImagePosts:        imagePosts,
		VKRequestInterval: interval,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and value formats.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("env")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config validation failed: %w", err)
		}

		missing := &MissingError{}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing.Vars = append(missing.Vars, fe.Field())
				continue
			}
			return &InvalidError{Var: fe.Field(), Value: fmt.Sprint(fe.Value()), Rule: fe.Tag()}
		}
		return missing
	}

	if c.VKRequestInterval < 0 {
		return &InvalidError{Var: "VK_REQUEST_INTERVAL", Value: c.VKRequestInterval.String(), Rule: "non-negative"}
	}
	if _, err := c.WallOwnerID(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// WallOwnerID returns the owner_id for posting to the community wall. Community walls use
// negative owner ids; VK_GROUP_ID may be given with or without the leading minus.
func (c *Config) WallOwnerID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(c.VKGroupID, "-"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &InvalidError{Var: "VK_GROUP_ID", Value: c.VKGroupID, Rule: "numeric group id"}
	}
	return -id, nil
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(getenv Getenv, key, defaultValue string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(getenv Getenv, key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &InvalidError{Var: key, Value: value, Rule: "boolean"}
	}
	return b, nil
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(getenv Getenv, key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &InvalidError{Var: key, Value: value, Rule: "duration"}
	}
	return d, nil
}
