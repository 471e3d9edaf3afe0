package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/deepgram/dictator/pkg/logger"
)

// File mirrors the optional YAML configuration file. Every value in it is
// overridden by the matching environment variable.
type File struct {
	OpenAI struct {
		Key     string `yaml:"key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"openai"`
	Assistant struct {
		Name             string `yaml:"name"`
		ID               string `yaml:"id"`
		InstructionsPath string `yaml:"instructions_path"`
	} `yaml:"assistant"`
	Poll struct {
		Interval    string `yaml:"interval"`
		MaxInterval string `yaml:"max_interval"`
		MaxAttempts int    `yaml:"max_attempts"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"poll"`
	Redis struct {
		URL      string `yaml:"url"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenLifetime string `yaml:"token_lifetime"`
	} `yaml:"auth"`
	RateLimit struct {
		Enabled    *bool `yaml:"enabled"`
		OAuthToken int   `yaml:"oauth_token"`
		Messages   int   `yaml:"messages"`
	} `yaml:"ratelimit"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadFile parses the YAML file at path and makes its values visible to
// GetEnvOrDefault.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := f.values()
	SetFileValues(values)
	logger.Info(logger.CONFIG, "Loaded %d values from config file %s", len(values), path)
	return nil
}

// values flattens the file into environment variable names.
func (f *File) values() map[string]string {
	out := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	setInt := func(key string, value int) {
		if value != 0 {
			out[key] = strconv.Itoa(value)
		}
	}

	set("OPENAI_KEY", f.OpenAI.Key)
	set("OPENAI_MODEL", f.OpenAI.Model)
	set("OPENAI_BASE_URL", f.OpenAI.BaseURL)
	set("ASSISTANT_NAME", f.Assistant.Name)
	set("ASSISTANT_ID", f.Assistant.ID)
	set("INSTRUCTIONS_PATH", f.Assistant.InstructionsPath)
	set("POLL_INTERVAL", f.Poll.Interval)
	set("POLL_MAX_INTERVAL", f.Poll.MaxInterval)
	setInt("POLL_MAX_ATTEMPTS", f.Poll.MaxAttempts)
	set("RUN_TIMEOUT", f.Poll.Timeout)
	set("REDIS_URL", f.Redis.URL)
	set("REDIS_PASSWORD", f.Redis.Password)
	set("SESSION_TTL", f.Session.TTL)
	set("JWT_SECRET", f.Auth.JWTSecret)
	set("TOKEN_LIFETIME", f.Auth.TokenLifetime)
	if f.RateLimit.Enabled != nil {
		out["RATELIMIT_ENABLED"] = strconv.FormatBool(*f.RateLimit.Enabled)
	}
	setInt("RATELIMIT_OAUTH_TOKEN", f.RateLimit.OAuthToken)
	setInt("RATELIMIT_MESSAGES", f.RateLimit.Messages)
	set("PORT", f.Server.Port)

	return out
}
