// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads private settings from a directory of plain-text
// files, one value per file: the file name is the key and the trimmed
// contents are the value. Nothing in it is required for a crawl.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets"

// KeyContactEmail names the address sites can use to reach the operator.
const KeyContactEmail = "contact-email"

// Known lists the keys Load reads. Other files in the directory are ignored.
var Known = []string{KeyContactEmail}

// Load reads the known keys from dir into a map of key to trimmed value.
// A missing directory or key file is not an error; blank files count as
// missing. A contact email without "@" is rejected.
func Load(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading secrets directory %s: not a directory", dir)
	}

	values := make(map[string]string)
	for _, key := range Known {
		data, err := os.ReadFile(filepath.Join(dir, key))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading secret %s: %w", key, err)
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			values[key] = v
		}
	}

	if email, ok := values[KeyContactEmail]; ok && !strings.Contains(email, "@") {
		return nil, fmt.Errorf("secret %s: %q is not an email address", KeyContactEmail, email)
	}
	return values, nil
}

// UserAgent appends the contact address, when one is configured and the
// agent does not already carry it, as "agent (+mailto:addr)".
func UserAgent(agent string, values map[string]string) string {
	email := values[KeyContactEmail]
	if email == "" || strings.Contains(agent, email) {
		return agent
	}
	return fmt.Sprintf("%s (+mailto:%s)", agent, email)
}
