// internal/extract/rulesfile.go
package extract

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Temporal []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"temporal"`
	Keywords []string `yaml:"keywords"`
}

// LoadRulesFile extends the default tables with entries from a YAML
// file. File entries add to the defaults; they cannot remove them.
// Keywords are lowercased on load.
func LoadRulesFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	rules := DefaultRules()
	for _, entry := range file.Temporal {
		p, err := NewTemporalPattern(entry.Name, entry.Pattern)
		if err != nil {
			return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
		}
		rules.Temporal = append(rules.Temporal, p)
	}
	for _, k := range file.Keywords {
		rules.Keywords = append(rules.Keywords, strings.ToLower(strings.TrimSpace(k)))
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}
