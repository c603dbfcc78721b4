package vault

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// parseFrontmatter extracts the leading YAML block of a note.
// It returns nil when the note has no frontmatter, and an error when the
// block is present but cannot be parsed.
func parseFrontmatter(data []byte) (map[string]any, error) {
	rest, ok := openingFence(data)
	if !ok {
		return nil, nil
	}

	block, ok := closingFence(rest)
	if !ok {
		return nil, nil
	}

	fm := make(map[string]any)
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, nil
}

// openingFence strips a first line of "---" followed by optional blanks.
func openingFence(data []byte) ([]byte, bool) {
	if !bytes.HasPrefix(data, []byte("---")) {
		return nil, false
	}
	end := bytes.IndexByte(data, '\n')
	if end < 0 || len(bytes.TrimRight(data[3:end], " \t\r")) > 0 {
		return nil, false
	}
	return data[end+1:], true
}

// closingFence returns the YAML between the opening fence and the first
// line that consists of "---".
func closingFence(rest []byte) ([]byte, bool) {
	offset := 0
	for offset <= len(rest) {
		line := rest[offset:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if string(bytes.TrimRight(line, " \t\r")) == "---" {
			return rest[:offset], true
		}
		if end < 0 {
			return nil, false
		}
		offset += end + 1
	}
	return nil, false
}

// applyFrontmatter copies the recognised keys into meta.
func applyFrontmatter(meta *domain.Metadata, fm map[string]any) {
	if v, ok := fm["tags"]; ok {
		meta.Tags = stringList(v)
	}
	if v, ok := fm["aliases"]; ok {
		meta.Aliases = stringList(v)
	}
	if v, ok := fm["title"]; ok {
		meta.Title = scalarString(v)
	}
	if v, ok := fm["date"]; ok {
		meta.Date = scalarString(v)
	}
	if v, ok := fm["category"]; ok {
		meta.Category = scalarString(v)
	}
}

// stringList coerces a scalar or a sequence into a list of strings.
// Strings are kept as written; only non-string scalars are rendered.
func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, scalarString(item))
		}
		return out
	case string:
		return []string{val}
	default:
		if s := scalarString(val); s != "" {
			return []string{s}
		}
		return nil
	}
}

// scalarString renders a YAML scalar as text.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
