package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Dim struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	Z int `yaml:"z" json:"z"`
}

type Output struct {
	Format string  `yaml:"format"` // "json" | "json2d" | "js"
	Scale  float64 `yaml:"scale"`
	Center bool    `yaml:"center"`
	Path   string  `yaml:"path"` // "" or "-" writes to stdout
}

// Server runs the map server instead of writing the map once when Enabled.
type Server struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // periph port name, e.g. SPI0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Sweep struct {
	FPS int `yaml:"fps"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Dim        Dim    `yaml:"dim"`
	Mapper     string `yaml:"mapper"` // "volumetric" | "walled"
	PixelCount int    `yaml:"pixel_count"`
	Strict     bool   `yaml:"strict"`

	Output Output  `yaml:"output"`
	Server Server  `yaml:"server"`
	Driver string  `yaml:"driver"` // "sim" | "spi"
	SPI    SPI     `yaml:"spi,omitempty"`
	Sweep  Sweep   `yaml:"sweep"`
	Log    Logging `yaml:"logging"`
}

// Default matches the stock 10x10x10 cube.
func Default() *Config {
	return &Config{
		Dim:    Dim{X: 10, Y: 10, Z: 10},
		Mapper: "volumetric",
		Output: Output{Format: "json", Scale: 1},
		Server: Server{Addr: ":8080"},
		Driver: "sim",
		SPI:    SPI{SpeedHz: 2500000},
		Sweep:  Sweep{FPS: 4},
		Log:    Logging{Level: "info"},
	}
}

// Load reads path over the defaults; keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
