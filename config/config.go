package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "MINEFIELD"

// Preset is a named (height, width, mines) triple offered when starting a
// game. Its name keys the best-time records.
type Preset struct {
	Name     string `mapstructure:"name"`
	Height   uint   `mapstructure:"height"`
	Width    uint   `mapstructure:"width"`
	NumMines uint   `mapstructure:"mines"`
}

func (preset Preset) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", preset.Name, preset.Height, preset.Width, preset.NumMines)
}

var DefaultPresets = []Preset{
	{Name: "small", Height: 9, Width: 9, NumMines: 10},
	{Name: "medium", Height: 16, Width: 16, NumMines: 40},
	{Name: "large", Height: 16, Width: 30, NumMines: 100},
}

type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Store        string        `mapstructure:"store"`
	LogLevel     string        `mapstructure:"log_level"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Presets      []Preset      `mapstructure:"presets"`
}

// SetDefaults registers every key's default on v
func SetDefaults(v *viper.Viper) {
	dataDir := ".minefield"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".minefield")
	}

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("store", "file")
	v.SetDefault("log_level", "info")
	v.SetDefault("tick_interval", time.Second)

	presets := make([]map[string]interface{}, len(DefaultPresets))
	for i, preset := range DefaultPresets {
		presets[i] = map[string]interface{}{
			"name":   preset.Name,
			"height": preset.Height,
			"width":  preset.Width,
			"mines":  preset.NumMines,
		}
	}
	v.SetDefault("presets", presets)
}

// Load reads the optional config file (YAML or TOML, by extension) and the
// MINEFIELD_* environment into v, then decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (config Config) Validate() error {
	if config.TickInterval <= 0 {
		return errors.Errorf("tick_interval must be positive, got %s", config.TickInterval)
	}
	if len(config.Presets) == 0 {
		return errors.New("at least one preset is required")
	}

	seen := make(map[string]struct{})
	for _, preset := range config.Presets {
		if preset.Name == "" {
			return errors.Errorf("preset %dx%d has no name", preset.Height, preset.Width)
		}
		if _, duplicate := seen[preset.Name]; duplicate {
			return errors.Errorf("preset %q is defined twice", preset.Name)
		}
		seen[preset.Name] = struct{}{}

		if preset.Height == 0 || preset.Width == 0 || preset.NumMines >= preset.Height*preset.Width {
			return errors.Errorf("preset %s cannot host a game", preset)
		}
	}
	return nil
}

func (config Config) Preset(name string) (Preset, bool) {
	for _, preset := range config.Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// ClassOf names the size class of a grid: the matching preset's name, or a
// name derived from the dimensions for custom grids.
func (config Config) ClassOf(height, width, numMines uint) string {
	for _, preset := range config.Presets {
		if preset.Height == height && preset.Width == width && preset.NumMines == numMines {
			return preset.Name
		}
	}
	return fmt.Sprintf("custom-%dx%d-%d", height, width, numMines)
}
