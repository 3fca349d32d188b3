// Package config loads spendscope settings and the optional header alias file.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// HeaderAliasFile is the name of the header alias file inside Dir().
const HeaderAliasFile = "headers"

// Dir returns the spendscope config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/spendscope if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "spendscope"), nil
}

// HeaderAliases maps extra spreadsheet column headers onto record fields.
// Keys are lower-cased header names, values are field names such as
// "vendor" or "po_number".
type HeaderAliases struct {
	Aliases map[string]string
}

// LoadHeaderAliases reads {dir}/headers. Each line has the form
// "header = field". A missing file yields an empty set without an error.
// Malformed lines are skipped.
func LoadHeaderAliases(dir string) (*HeaderAliases, error) {
	cfg := &HeaderAliases{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(filepath.Join(dir, HeaderAliasFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on the last "=" so headers may contain one.
		idx := strings.LastIndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		header := strings.ToLower(strings.TrimSpace(line[:idx]))
		field := strings.ToLower(strings.TrimSpace(line[idx+1:]))
		if header == "" || field == "" {
			continue
		}

		cfg.Aliases[header] = field
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
