package extractor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules are the responsible-person derivation rules included in the
// extraction prompt. They can be overridden from a YAML file so that new
// statement quirks do not require a code change.
type Rules struct {
	Instructions []string `yaml:"instructions"`
}

// DefaultRules returns the built-in derivation rules. The first three are
// hard rules; the last two require judgment from the extraction service.
func DefaultRules() Rules {
	return Rules{
		Instructions: []string{
			`Dues are always "All" regardless of what name is associated with the row in the PDF.`,
			`Only parse the user name if it is not surrounded by parens. e.g. "No Show Fee (Amy Buffet) No Show Fee John Doe" should be assigned to John Doe, not Amy Buffet.`,
			`Assign to the FIRST name if multiple names show up, regardless of case.`,
			`If it sounds like a shared responsibility, e.g. "shared membership ...", assign it to "All".`,
			`Assign to "Unknown" if you cannot figure it out.`,
			`The first three are hard rules. The last two are soft and require some judgment.`,
		},
	}
}

// LoadRules reads derivation rules from a YAML file. An empty path returns
// the defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return Rules{}, fmt.Errorf("could not read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("could not parse rules file: %w", err)
	}
	if len(rules.Instructions) == 0 {
		return DefaultRules(), nil
	}
	return rules, nil
}
