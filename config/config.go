/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config is the ambient configuration layer: the handful of
// launcher/client defaults (readiness deadline, shutdown grace and kill
// windows, default protocol version, max body size) loadable from the
// environment or an optional file, with hardcoded fallbacks when neither
// is present. Scoped down from the teacher's config/manage.go component
// registry, which governs a whole application's worth of subsystems this
// module doesn't have; bitbridge has exactly one configurable surface.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is a resolved set of launcher/client defaults. client.Open does
// not read it: client.Options applies its own hardcoded fallbacks, which
// match Defaults() except that MaxBodyBytes is left at zero.
type Config struct {
	ReadyDeadline time.Duration `mapstructure:"ready_deadline"`
	Grace         time.Duration `mapstructure:"grace"`
	Kill          time.Duration `mapstructure:"kill"`
	Protocol      string        `mapstructure:"protocol"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
}

// Defaults returns the hardcoded fallback Config, used when no file and no
// environment variable overrides a field. spec.md §6 "Persisted state:
// None" is unaffected by this: viper here only resolves these five
// process-start defaults, never RPC state.
func Defaults() Config {
	return Config{
		ReadyDeadline: 10 * time.Second,
		Grace:         5 * time.Second,
		Kill:          2 * time.Second,
		Protocol:      "1",
		MaxBodyBytes:  64 << 20,
	}
}

// envPrefix namespaces every environment variable this package consults,
// e.g. BITBRIDGE_READY_DEADLINE.
const envPrefix = "BITBRIDGE"

// Load resolves a Config starting from Defaults(), then a config file at
// path (if non-empty; any viper-supported format: yaml, toml, json), then
// BITBRIDGE_-prefixed environment variables, each layer overriding the
// last. A missing file at an explicitly-given path is an error; an empty
// path skips the file layer entirely.
func Load(path string) (Config, error) {
	def := Defaults()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ready_deadline", def.ReadyDeadline)
	v.SetDefault("grace", def.Grace)
	v.SetDefault("kill", def.Kill)
	v.SetDefault("protocol", def.Protocol)
	v.SetDefault("max_body_bytes", def.MaxBodyBytes)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		ReadyDeadline: v.GetDuration("ready_deadline"),
		Grace:         v.GetDuration("grace"),
		Kill:          v.GetDuration("kill"),
		Protocol:      v.GetString("protocol"),
		MaxBodyBytes:  v.GetInt64("max_body_bytes"),
	}

	return cfg, nil
}
