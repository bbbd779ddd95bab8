package formatting

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "simple object",
			input:    map[string]any{"name": "test", "value": 42},
			expected: "{\n  \"name\": \"test\",\n  \"value\": 42\n}",
		},
		{
			name:     "array",
			input:    []string{"a", "b"},
			expected: "[\n  \"a\",\n  \"b\"\n]",
		},
		{
			name:     "string",
			input:    "hello world",
			expected: "\"hello world\"",
		},
		{
			name:     "nil",
			input:    nil,
			expected: "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PrettyJSON(tt.input)
			if result != tt.expected {
				t.Errorf("PrettyJSON() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPrettyJSONWithInvalidData(t *testing.T) {
	ch := make(chan int)
	result := PrettyJSON(ch)

	if result == "" {
		t.Error("PrettyJSON() should not return empty string for unmarshalable data")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short string untouched",
			input:    "scenario.yaml",
			max:      100,
			expected: "scenario.yaml",
		},
		{
			name:     "exact length untouched",
			input:    "abcde",
			max:      5,
			expected: "abcde",
		},
		{
			name:     "long string cut with ellipsis",
			input:    "abcdefghij",
			max:      8,
			expected: "abcde...",
		},
		{
			name:     "tiny limit left alone",
			input:    "abcdefghij",
			max:      3,
			expected: "abcdefghij",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestNewTableRendersHeadersAndRows(t *testing.T) {
	var buf bytes.Buffer

	tbl := NewTable(&buf, "FILE", "STATUS", "DETAIL")
	tbl.AddRow("scenario.yaml", StatusOK("OK"), "3 entities")
	tbl.AddRow("broken.yaml", StatusFailed("FAILED"), "users[0]: login must not be empty")
	tbl.Render()

	out := buf.String()
	for _, want := range []string{"FILE", "STATUS", "DETAIL", "scenario.yaml", "OK", "broken.yaml", "login must not be empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}
