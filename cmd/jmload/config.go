package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config mirrors the command-line flags. Flags set explicitly win over the file.
type Config struct {
	Loader LoaderConfig `yaml:"loader"`
	Export ExportConfig `yaml:"export"`
	Ingest IngestConfig `yaml:"ingest"`
}

type LoaderConfig struct {
	ContentKey     *string  `yaml:"content_key"`
	TextContent    *bool    `yaml:"text_content"`
	MetadataFields []string `yaml:"metadata_fields"`
	ListToString   bool     `yaml:"list_to_string"`
	MaxItems       int      `yaml:"max_items"`
}

type ExportConfig struct {
	Bucket  string        `yaml:"bucket"`
	Key     string        `yaml:"key"`
	Prefix  string        `yaml:"prefix"`
	Presign time.Duration `yaml:"presign"`
	Gzip    bool          `yaml:"gzip"`
}

type IngestConfig struct {
	Embedder     string `yaml:"embedder"`
	Model        string `yaml:"model"`
	DatabaseURL  string `yaml:"database_url"`
	Table        string `yaml:"table"`
	Dimension    int    `yaml:"dimension"`
	ChunkTokens  int    `yaml:"chunk_tokens"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	Recreate     bool   `yaml:"recreate"`
}

func readConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay copies file values into flag-bound variables for every flag the
// user did not set and the file did set.
type overlay struct {
	cmd *cobra.Command
}

func (o overlay) str(flag string, dst *string, val string) {
	if val != "" && !o.cmd.Flags().Changed(flag) {
		*dst = val
	}
}

func (o overlay) num(flag string, dst *int, val int) {
	if val != 0 && !o.cmd.Flags().Changed(flag) {
		*dst = val
	}
}

func (o overlay) boolean(flag string, dst *bool, val *bool) {
	if val != nil && !o.cmd.Flags().Changed(flag) {
		*dst = *val
	}
}

func (o overlay) list(flag string, dst *[]string, val []string) {
	if len(val) > 0 && !o.cmd.Flags().Changed(flag) {
		*dst = val
	}
}

func (o overlay) dur(flag string, dst *time.Duration, val time.Duration) {
	if val != 0 && !o.cmd.Flags().Changed(flag) {
		*dst = val
	}
}

func boolPtr(b bool) *bool {
	if !b {
		return nil
	}
	return &b
}
