package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "double dash matches single dash name",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "order preserved across forms",
			args:         []string{"--d=first", "-s", "secret", "-x", "1"},
			allowedFlags: []string{"-d", "-s"},
			want:         []string{"--d=first", "-s", "secret"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "deactivate", "a@x.com"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-d", "-s", "k"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "bare dashes are not flags",
			args:         []string{"-", "--", "-d", "x"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	assert.Equal(t, "cfg.json", JSONConfigPath([]string{"-a", ":1", "-c", "cfg.json"}))
	assert.Equal(t, "long.json", JSONConfigPath([]string{"--config=long.json"}))
	assert.Equal(t, "", JSONConfigPath([]string{"-a", ":1"}))
	assert.Equal(t, "", JSONConfigPath(nil))
}

func TestPositional(t *testing.T) {
	valueFlags := []string{"-d", "-c"}

	assert.Equal(t, []string{"deactivate", "a@x.com"},
		Positional([]string{"-d", "sqlite://x.db", "deactivate", "a@x.com"}, valueFlags))
	assert.Equal(t, []string{"create", "a@x.com", "Ann", "Lee"},
		Positional([]string{"--d=x", "create", "a@x.com", "-v", "Ann", "Lee"}, valueFlags))
	assert.Equal(t, []string{"activate", "-weird"},
		Positional([]string{"activate", "--", "-weird"}, valueFlags))
	assert.Empty(t, Positional([]string{"-c", "conf.json"}, valueFlags))
}
