package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	t.Run("no frontmatter", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("just text"))
		require.NoError(t, err)
		assert.Nil(t, fm)
	})

	t.Run("crlf fences", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("---\r\ntitle: Windows\r\n---\r\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "Windows", fm["title"])
	})

	t.Run("trailing blanks after opening fence", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("--- \ntags: paris\n---\nWent to Paris"))
		require.NoError(t, err)
		assert.Equal(t, "paris", fm["tags"])

		fm, err = parseFrontmatter([]byte("---\t \r\ntitle: Tabs\r\n---\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Tabs", fm["title"])
	})

	t.Run("dashes followed by text are not a fence", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("--- not yaml\ntitle: x\n---\n"))
		require.NoError(t, err)
		assert.Nil(t, fm)
	})

	t.Run("empty block", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.Empty(t, fm)
	})

	t.Run("unclosed block is not frontmatter", func(t *testing.T) {
		fm, err := parseFrontmatter([]byte("---\ntitle: x\nbody"))
		require.NoError(t, err)
		assert.Nil(t, fm)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := parseFrontmatter([]byte("---\n: : :\n  - [\n---\n"))
		assert.Error(t, err)
	})
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"scalar", "paris", []string{"paris"}},
		{"empty scalar", "", []string{""}},
		{"scalar kept as written", " paris ", []string{" paris "}},
		{"list", []any{"a", "b"}, []string{"a", "b"}},
		{"mixed list", []any{"a", 2, nil}, []string{"a", "2", ""}},
		{"list items kept as written", []any{" a ", "", "b"}, []string{" a ", "", "b"}},
		{"number", 42, []string{"42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringList(tt.in))
		})
	}
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "2024-05-01", scalarString(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-01T08:30:00Z", scalarString(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)))
	assert.Equal(t, "true", scalarString(true))
	assert.Equal(t, "trimmed", scalarString("  trimmed "))
	assert.Equal(t, "", scalarString(map[string]any{"a": 1}))
}
