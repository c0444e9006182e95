package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0o600))

	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("\n"), 0o600))

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{
			name:   "file takes precedence over value",
			src:    Source{Name: "api token", Value: "inline", File: tokenFile},
			expect: "file-token",
		},
		{
			name:   "inline value is trimmed",
			src:    Source{Value: "  inline  "},
			expect: "inline",
		},
		{
			name:   "optional source without value",
			src:    Source{Name: "api token", Optional: true},
			expect: "",
		},
		{
			name:    "required source without value",
			src:     Source{Name: "api token"},
			wantErr: "api token is not configured",
		},
		{
			name:    "empty file is an error even when optional",
			src:     Source{Name: "api token", File: emptyFile, Optional: true},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{File: filepath.Join(dir, "missing")},
			wantErr: "reading secret from file",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Load(tt.src)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}
