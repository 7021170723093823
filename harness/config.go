package harness

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Config configures the transaction harness.
type Config struct {
	// MaxCycles bounds how many cycles a single transaction may take
	// before the harness gives up. Default: 4096.
	MaxCycles uint64 `json:"max_cycles"`

	// Transfers is how many transactions each benchmark pushes through
	// its component. Default: 256.
	Transfers int `json:"transfers"`

	// Seed seeds the operand generator so runs are reproducible.
	// Default: 1.
	Seed int64 `json:"seed"`

	// Output is where reports are written. Default: os.Stdout.
	Output io.Writer `json:"-"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxCycles: 4096,
		Transfers: 256,
		Seed:      1,
		Output:    os.Stdout,
	}
}

// LoadConfig loads a Config from a JSON file, with defaults for absent
// fields.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "harness: reading config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(err, "harness: parsing config file")
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "harness: serializing config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "harness: writing config file")
	}

	return nil
}

// Validate checks that the Config can drive a benchmark.
func (c Config) Validate() error {
	if c.MaxCycles == 0 {
		return errors.New("harness: max_cycles must be > 0")
	}
	if c.Transfers <= 0 {
		return errors.New("harness: transfers must be > 0")
	}
	return nil
}
