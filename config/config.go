package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Profile is an optional TOML file applied before composing a document. It
// supplies defaults the source document may not repeat: page geometry, font
// registrations and row-layout parameters.
type Profile struct {
	Page  PageConfig   `toml:"page"`
	Fonts []FontConfig `toml:"fonts"`
	Rows  RowsConfig   `toml:"rows"`
}

type PageConfig struct {
	Size      string  `toml:"size"`
	Landscape bool    `toml:"landscape"`
	Margin    float64 `toml:"margin"`
}

// FontConfig registers one font family. Src is a file path resolved
// relative to the profile unless absolute.
type FontConfig struct {
	Family string `toml:"family"`
	Src    string `toml:"src"`
}

type RowsConfig struct {
	DefaultItemWidth float64 `toml:"default_item_width"`
	Padding          float64 `toml:"padding"`
	LabelFont        string  `toml:"label_font"`
	LabelSize        float64 `toml:"label_size"`
	TextFont         string  `toml:"text_font"`
	TextSize         float64 `toml:"text_size"`
}

// Default returns the profile used when no file is given.
func Default() Profile {
	return Profile{
		Page: PageConfig{Size: "A4", Margin: 20},
	}
}

// Load reads a TOML profile from path. An empty path returns the defaults.
func Load(path string) (Profile, error) {
	profile := Default()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}
