// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyContactEmail, "  ops@example.org \n")
				return dir
			},
			want: map[string]string{KeyContactEmail: "ops@example.org"},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "ignores unknown files and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyContactEmail, "ops@example.org")
				writeFile(t, dir, "api-token", "abc")
				writeFile(t, dir, ".gitkeep", "")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: map[string]string{KeyContactEmail: "ops@example.org"},
		},
		{
			name: "blank contact email counts as missing",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyContactEmail, "  \n\t")
				return dir
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file", "x")
	_, err := Load(filepath.Join(dir, "file"))
	assert.ErrorContains(t, err, "reading secrets directory")
}

func TestLoadRejectsMalformedContactEmail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KeyContactEmail, "ops at example.org")
	_, err := Load(dir)
	assert.ErrorContains(t, err, "not an email address")
}

func TestUserAgent(t *testing.T) {
	values := map[string]string{KeyContactEmail: "ops@example.org"}
	assert.Equal(t, "paperscout/0.1 (+mailto:ops@example.org)", UserAgent("paperscout/0.1", values))
	assert.Equal(t, "paperscout/0.1", UserAgent("paperscout/0.1", nil))
	assert.Equal(t, "bot ops@example.org", UserAgent("bot ops@example.org", values))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
