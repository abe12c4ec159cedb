package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from TALENTALIGN_* environment variables. Unset or blank
// variables leave the field alone.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), true
			}
		}
		return "", false
	}

	strs := []struct {
		dst  *string
		keys []string
	}{
		{&c.APIURL, []string{"TALENTALIGN_API_URL", "TALENTALIGN_API_BASE_URL"}},
		{&c.Profile, []string{"TALENTALIGN_PROFILE"}},
		{&c.Listen, []string{"TALENTALIGN_LISTEN"}},
		{&c.Store.Backend, []string{"TALENTALIGN_STORE_BACKEND"}},
		{&c.Store.Path, []string{"TALENTALIGN_STORE_PATH"}},
		{&c.Store.RedisAddr, []string{"TALENTALIGN_REDIS_ADDR", "REDIS_ADDR"}},
		{&c.Store.RedisPassword, []string{"TALENTALIGN_REDIS_PASSWORD", "REDIS_PASSWORD"}},
		{&c.Store.DatabaseURL, []string{"TALENTALIGN_DATABASE_URL", "DATABASE_URL"}},
		{&c.Export.Dir, []string{"TALENTALIGN_EXPORT_DIR"}},
		{&c.Export.S3Bucket, []string{"TALENTALIGN_S3_BUCKET"}},
		{&c.Export.S3Region, []string{"TALENTALIGN_S3_REGION", "AWS_REGION"}},
		{&c.Export.S3Prefix, []string{"TALENTALIGN_S3_PREFIX"}},
		{&c.LogLevel, []string{"TALENTALIGN_LOG_LEVEL"}},
		{&c.LogFormat, []string{"TALENTALIGN_LOG_FORMAT"}},
	}
	for _, s := range strs {
		if v, ok := get(s.keys...); ok {
			*s.dst = v
		}
	}

	durs := []struct {
		dst *Duration
		key string
	}{
		{&c.Timeout, "TALENTALIGN_TIMEOUT"},
		{&c.HealthInterval, "TALENTALIGN_HEALTH_INTERVAL"},
	}
	for _, d := range durs {
		v, ok := get(d.key)
		if !ok {
			continue
		}
		parsed, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := get("TALENTALIGN_USE_BROWSER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TALENTALIGN_USE_BROWSER: %w", err)
		}
		c.UseBrowser = b
	}
	return nil
}
