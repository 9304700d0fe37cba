package templates

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/enterprisey/article-history/app/history"
)

func DefaultConfig() *Config {
	return &Config{Templates: []Entry{
		{Kind: "article-history", Title: "Article history", Aliases: []string{"ArticleHistory", "Articlehistory", "Article History"}},
		{Kind: "dyk", Title: "DYK talk", Aliases: []string{"DYKtalk", "Dyktalk", "DYK Talk"}},
		{Kind: "itn", Title: "ITN talk", Aliases: []string{"ITNtalk", "Itntalk"}},
		{Kind: "otd", Title: "On this day", Aliases: []string{"OnThisDay", "OTD talk"}},
		{Kind: "xfd", Title: "Old XfD multi", Aliases: []string{"Old AfD multi", "Oldafdmulti", "Old AfD", "Oldafdfull"}},
	}}
}

// LoadFile reads a templates file. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	aggregates := 0
	for i, entry := range c.Templates {
		kind, ok := history.ParseKind(entry.Kind)
		if !ok {
			return fmt.Errorf("template %d: unknown kind '%s'", i+1, entry.Kind)
		}
		if entry.Title == "" {
			return fmt.Errorf("template %d: title is required", i+1)
		}
		if kind == history.KindArticleHistory {
			aggregates++
		}
	}
	if aggregates != 1 {
		return fmt.Errorf("expected exactly one article-history template, got %d", aggregates)
	}
	return nil
}
