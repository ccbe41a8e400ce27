package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/household-sim/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the comparison in the named format to a timestamped
// file inside dir and returns the written paths. The format "all" writes the
// verbose console ledger and the detailed CSV.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			path, err := WriteFormatted(f, results, dir, FileExtension(f))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, results, dir, FileExtension(f))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveConfiguration writes the typed simulation configuration as YAML.
func SaveConfiguration(config *domain.SimulationConfig, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
