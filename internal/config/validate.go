package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be > 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if err := c.Prompts.validate(); err != nil {
		return fmt.Errorf("prompts: %w", err)
	}

	return nil
}

func (p *PromptsConfig) validate() error {
	if p.MinHoursBetweenPrompts < 0 {
		return fmt.Errorf("min_hours_between_prompts must be >= 0 (got %d)", p.MinHoursBetweenPrompts)
	}
	if p.MaxPromptsPerWeek <= 0 {
		return fmt.Errorf("max_prompts_per_week must be > 0 (got %d)", p.MaxPromptsPerWeek)
	}
	if p.CooldownAfterDismissDays < 0 {
		return fmt.Errorf("cooldown_after_dismiss_days must be >= 0 (got %d)", p.CooldownAfterDismissDays)
	}
	if p.MaxDismissCount <= 0 {
		return fmt.Errorf("max_dismiss_count must be > 0 (got %d)", p.MaxDismissCount)
	}

	p.EasyFieldIDs = ParseList(p.EasyFields)

	p.CategoryOrderList = ParseList(p.CategoryOrder)
	if len(p.CategoryOrderList) == 0 {
		return fmt.Errorf("category_order must not be empty")
	}

	return nil
}

// ParseList parses a comma-separated string into a slice of trimmed,
// non-empty items. An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
