package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"€1.2M", "1200000"},
		{"€500K", "500000"},
		{"€0", "0"},
		{"€105.5M", "105500000"},
		{"1200000", "1200000"},
		{"500000", "500000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Currency(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Currency(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCurrencyRejectsEmpty(t *testing.T) {
	_, err := Currency("€")
	assert.Error(t, err)
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"Overall rating":   "overallrating",
		"FK Accuracy":      "fk_accuracy",
		"GK Diving":        "gk_diving",
		"Heading accuracy": "headingaccuracy",
		"Value":            "value",
		"fifa_edition":     "fifa_edition",
		"build-up speed":   "build_upspeed",
	}
	for in, want := range tests {
		assert.Equal(t, want, ColumnName(in), in)
	}
}

func TestAliases(t *testing.T) {
	a := NewAliases(map[string][]string{
		"Manchester United": {"Manchester Utd", "Man United"},
		"Inter":             {"Inter Milan"},
	})

	assert.Equal(t, "Manchester United", a.Replace("Manchester Utd"))
	assert.Equal(t, "Arsenal", a.Replace("Arsenal"))
	assert.Equal(t,
		[]string{"Man United", "Manchester United", "Manchester Utd"},
		a.Variants("Manchester United"),
	)
	assert.Equal(t, []string{"Nonexistent FC"}, a.Variants("Nonexistent FC"))

	var empty *Aliases
	assert.Equal(t, "Inter Milan", empty.Replace("Inter Milan"))
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamname_replacements.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Tottenham": ["Tottenham Hotspur", "Spurs"]}`), 0o644))

	a, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, "Tottenham", a.Replace("Spurs"))

	a, err = LoadAliases("")
	require.NoError(t, err)
	assert.Equal(t, "Spurs", a.Replace("Spurs"))

	_, err = LoadAliases(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
