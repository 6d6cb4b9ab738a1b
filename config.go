package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const CurrentConfigVersion = 1

// ConfigData is the optional JSON configuration file. Command line flags
// override anything set here.
type ConfigData struct {
	Version int `json:"version,omitempty"`

	// Speed is the number of instructions executed per second.
	Speed int `json:"speed,omitempty"`

	// Color names the foreground color of lit pixels.
	Color string `json:"color,omitempty"`

	// Keys remaps keyboard characters to keypad keys 0-F.
	Keys map[string]int `json:"keys,omitempty"`
}

func DefaultConfigData() ConfigData {
	return ConfigData{
		Version: CurrentConfigVersion,
		Speed:   500,
		Color:   "green",
	}
}

/* the directory where the config file lives, which is ~/.config/chip8vm on linux */
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "chip8vm"), nil
}

// LoadConfigData reads the config file at path, or the default location
// when path is empty. A missing default file yields the defaults.
func LoadConfigData(path string) (ConfigData, error) {
	explicit := path != ""

	if !explicit {
		dir, err := ConfigDir()
		if err != nil {
			return DefaultConfigData(), nil
		}
		path = filepath.Join(dir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfigData(), nil
		}
		return ConfigData{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	return ParseConfigData(data)
}

// ParseConfigData decodes a config file, filling in defaults for
// anything left out.
func ParseConfigData(data []byte) (ConfigData, error) {
	config := DefaultConfigData()

	if err := json.Unmarshal(data, &config); err != nil {
		return ConfigData{}, fmt.Errorf("parsing config: %w", err)
	}

	if config.Version > CurrentConfigVersion {
		return ConfigData{}, fmt.Errorf("unsupported config version %d", config.Version)
	}

	if config.Speed <= 0 {
		return ConfigData{}, fmt.Errorf("invalid speed %d", config.Speed)
	}

	for k, key := range config.Keys {
		if len([]rune(k)) != 1 || key < 0 || key > 0xF {
			return ConfigData{}, fmt.Errorf("invalid key mapping %q: %d", k, key)
		}
	}

	return config, nil
}
