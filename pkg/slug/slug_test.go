package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "My Plugin", "my-plugin"},
		{"caps and digits", "Test Plugin 123", "test-plugin-123"},
		{"mixed separators", "Super-Cool_Plugin", "super-cool-plugin"},
		{"repeated spaces", "Plugin   with   spaces", "plugin-with-spaces"},
		{"punctuation dropped", "Plugin & More!", "plugin-more"},
		{"leading trailing", "  -Plugin-  ", "plugin"},
		{"only symbols", "!@#$%", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestGenerateCollisionSuffix(t *testing.T) {
	existing := map[string]bool{}
	taken := func(s string) bool { return existing[s] }

	first := Generate("My Plugin", taken)
	assert.Equal(t, "my-plugin", first)
	existing[first] = true

	second := Generate("My Plugin", taken)
	assert.Equal(t, "my-plugin-1", second)
	existing[second] = true

	third := Generate("My Plugin", taken)
	assert.Equal(t, "my-plugin-2", third)
}

func TestGenerateNonAlphanumericFallback(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)

	got := Generate("!!!", func(string) bool { return false })
	assert.NotEmpty(t, got)
	assert.Regexp(t, valid, got)
}

func TestGenerateCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)

	for _, name := range []string{
		"Plugin with CAPS",
		"Ñoño Plugin",
		"Plugin @ Home",
		"Plugin_with_underscores",
		"日本語プラグイン",
	} {
		got := Generate(name, func(string) bool { return false })
		assert.NotEmpty(t, got, "name %q", name)
		assert.Regexp(t, valid, got, "name %q", name)
	}
}
