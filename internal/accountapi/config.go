package accountapi

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
)

const (
	defaultListenAddr      = ":8080"
	defaultAllowedOrigin   = "http://localhost:3000"
	defaultShutdownTimeout = 5 * time.Second
)

// Config aggregates runtime settings for the account API.
type Config struct {
	ListenAddr      string
	AllowedOrigins  []string
	RulesName       string
	ShutdownTimeout time.Duration

	rules account.Rules
}

// Validate fills defaults and resolves the rule set.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	for _, origin := range cfg.AllowedOrigins {
		if !validOrigin(origin) {
			return fmt.Errorf("allowed origin %q must start with http:// or https://", origin)
		}
	}
	rules, err := account.ParseRules(cfg.RulesName)
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	cfg.rules = rules
	cfg.RulesName = rules.String()
	return nil
}

// Rules returns the rule set resolved by Validate.
func (cfg Config) Rules() account.Rules {
	return cfg.rules
}

// cors panics on origins without a scheme, so they are rejected up front.
func validOrigin(origin string) bool {
	return origin == "*" || strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
}

// ParseAllowedOrigins reads a comma or whitespace separated origin list.
func ParseAllowedOrigins(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
