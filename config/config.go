// Package config reads command line settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/setanarut/mockup"
	"github.com/setanarut/mockup/palette"
)

type Config struct {
	Options   mockup.Options
	OutputDir string
}

// Load reads the given env files, or .env when none are given, then the
// process environment. Missing files are ignored; unset variables keep the
// defaults.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		Options:   mockup.DefaultOptions(),
		OutputDir: "output",
	}
	if v := os.Getenv("MOCKUP_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	o := &cfg.Options
	ints := []struct {
		key string
		dst *int
	}{
		{"MOCKUP_RADIUS", &o.Radius},
		{"MOCKUP_CLUSTERS", &o.Clusters},
		{"MOCKUP_PREVIEW_SIZE", &o.PreviewSize},
		{"MOCKUP_WORKERS", &o.Workers},
		{"MOCKUP_TEMPLATE_CACHE", &o.Templates.Limit},
		{"MOCKUP_TRANSFORMER_CACHE", &o.Transformers.Limit},
		{"MOCKUP_DOCUMENT_CACHE", &o.Documents.Limit},
		{"MOCKUP_COLOR_CACHE", &o.Colors.Limit},
	}
	for _, e := range ints {
		if err := readInt(e.key, e.dst); err != nil {
			return nil, err
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"MOCKUP_BLEND", &o.Blend},
		{"MOCKUP_SKIN_THRESHOLD", &o.SkinThreshold},
		{"MOCKUP_MAX_PHOTO_COVERAGE", &o.MaxPhotoCoverage},
	}
	for _, e := range floats {
		if err := readFloat(e.key, e.dst); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("MOCKUP_METHOD"); v != "" {
		m, ok := palette.ParseMethod(v)
		if !ok {
			return nil, fmt.Errorf("config: MOCKUP_METHOD: unknown method %q", v)
		}
		o.Method = m
	}
	return cfg, nil
}

func readInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func readFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = f
	return nil
}
