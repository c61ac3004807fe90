package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	if c.Matching.HashThreshold < 1 || c.Matching.HashThreshold > 64 {
		return errors.New("matching.hash_threshold must be between 1 and 64")
	}
	if c.Matching.TimeWindowMinutes < 1 {
		return errors.New("matching.time_window_minutes must be at least 1")
	}
	switch c.Matching.Algorithm {
	case "phash", "ahash", "dhash":
		return nil
	default:
		return fmt.Errorf("matching.algorithm: unsupported value %q (use phash, ahash, or dhash)", c.Matching.Algorithm)
	}
}

func (c *Config) validateScan() error {
	if c.Scan.Workers < 0 {
		return errors.New("scan.workers must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.HandleCapacity < 1 {
		return errors.New("cache.handle_capacity must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
