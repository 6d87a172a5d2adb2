// Package config reads settings from the environment (optionally seeded from
// .env) and decodes YAML run profiles
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tripstats/internal/platform/logger"
)

// Conf reads env vars under a prefix, e.g. CORE_INGEST_ or SERVICE_CLICKHOUSE_
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

// Prefix narrows c to keys starting with p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// MayString returns the trimmed value, def when unset or blank
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt, MayBool and MayDuration return def when the key is unset, and log a
// warning before returning def when the value does not parse
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("unparsable setting, using default")
		return def
	}
	return v
}
