package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SecurityRules are the request filter lists, kept out of code so each
// deployment can tune them.
type SecurityRules struct {
	BotUserAgents []string `yaml:"botUserAgents"`
	AllowedIPs    []string `yaml:"allowedIPs"`
}

// LoadSecurityRules reads rules from a YAML file. A missing file yields empty
// rules and found=false; a malformed one is an error.
func LoadSecurityRules(path string) (rules SecurityRules, found bool, err error) {
	if path == "" {
		return SecurityRules{}, false, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return SecurityRules{}, false, nil
	}
	if err != nil {
		return SecurityRules{}, false, fmt.Errorf("failed to read security rules '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return SecurityRules{}, false, fmt.Errorf("syntax error in security rules '%s': %w", path, err)
	}

	rules.BotUserAgents = normalize(rules.BotUserAgents, strings.ToLower)
	rules.AllowedIPs = normalize(rules.AllowedIPs, nil)
	return rules, true, nil
}

func normalize(in []string, fn func(string) string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if fn != nil {
			s = fn(s)
		}
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
