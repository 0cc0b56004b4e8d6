package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inazon/ai-task-notify/internal/config"
)

// WriteConfigYAML writes cfg as YAML with secrets masked.
func WriteConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Redacted()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
