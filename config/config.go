// Package config holds the parameters of a simulation run. Values come from
// defaults, then .env files, then PPUSIM_* environment variables. Command
// line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sarchlab/ppusim/sim"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PPUSIM_"

// Config is the configuration of a run.
type Config struct {
	RAMSize          int
	BankCount        int
	TileSize         int
	Freq             sim.Freq
	ExchangeGating   bool
	ForwardQueueSize int

	LogFormat string
	LogLevel  string

	RecordPath  string
	MonitorPort int
	Parallel    bool
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		RAMSize:          1024,
		BankCount:        32,
		TileSize:         32,
		Freq:             1 * sim.GHz,
		ForwardQueueSize: 4,
		LogFormat:        "text",
		LogLevel:         "info",
	}
}

// Load returns the default configuration updated by the given .env files and
// the environment. Missing .env files are ignored. Variables already set in
// the environment take precedence over the files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	c := Default()
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return c, nil
}

// FromEnvMap returns the default configuration updated by variables as read
// by godotenv.Read.
func FromEnvMap(env map[string]string) (Config, error) {
	c := Default()

	err := c.applyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	ints := map[string]*int{
		"RAM_SIZE":           &c.RAMSize,
		"BANK_COUNT":         &c.BankCount,
		"TILE_SIZE":          &c.TileSize,
		"FORWARD_QUEUE_SIZE": &c.ForwardQueueSize,
		"MONITOR_PORT":       &c.MonitorPort,
	}
	for key, dst := range ints {
		if err := lookupInt(lookup, key, dst); err != nil {
			return err
		}
	}

	bools := map[string]*bool{
		"EXCHANGE_GATING": &c.ExchangeGating,
		"PARALLEL":        &c.Parallel,
	}
	for key, dst := range bools {
		if err := lookupBool(lookup, key, dst); err != nil {
			return err
		}
	}

	strs := map[string]*string{
		"LOG_FORMAT":  &c.LogFormat,
		"LOG_LEVEL":   &c.LogLevel,
		"RECORD_PATH": &c.RecordPath,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "FREQ_MHZ"); ok {
		mhz, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sFREQ_MHZ: %w", EnvPrefix, err)
		}

		c.Freq = MHz(mhz)
	}

	return nil
}

// MHz converts a frequency given in MHz.
func MHz(mhz float64) sim.Freq {
	return sim.Freq(mhz) * sim.MHz
}

func lookupInt(lookup lookupFunc, key string, dst *int) error {
	v, ok := lookup(EnvPrefix + key)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}

	*dst = n

	return nil
}

func lookupBool(lookup lookupFunc, key string, dst *bool) error {
	v, ok := lookup(EnvPrefix + key)
	if !ok {
		return nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}

	*dst = b

	return nil
}

// Validate checks that the configuration can build a unit.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"ram size", c.RAMSize},
		{"bank count", c.BankCount},
		{"tile size", c.TileSize},
		{"forward queue size", c.ForwardQueueSize},
	}

	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", p.name, p.value)
		}
	}

	if c.Freq <= 0 {
		return fmt.Errorf("frequency must be > 0, got %v", c.Freq)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("monitor port %d out of range", c.MonitorPort)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	return nil
}
