// Package script parses annotated SQL files. Statements are separated by
// semicolons; '--' comment lines above a statement carry key/value options
// that drive how its result set is exported.
package script

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Query is one statement from a script with its export options.
type Query struct {
	SQL     string
	Options map[string]any
}

// List-valued options would be destroyed by the comma split, so they are
// lifted out of the line first.
var (
	dataColumnsPattern = regexp.MustCompile(`data_columns\s*[:=]\s*[\[(]\s*[^)\]]*[)\]]`)
	headingsPattern    = regexp.MustCompile(`headings\s*[:=]\s*[\[(]\s*[^)\]]*[)\]]`)
	listPattern        = regexp.MustCompile(`^[\[(]\s*(.*?)\s*[)\]]$`)
	listSeparator      = regexp.MustCompile(`\s*,\s*`)
)

// ParseFile parses an annotated SQL script file.
func ParseFile(path string) ([]Query, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(string(content))
}

// Parse splits the script on semicolons and extracts each statement's options
// from its '--' comment lines. Statements without options are returned too;
// the caller decides what to do with them.
func Parse(content string) ([]Query, error) {
	var queries []Query

	for _, segment := range strings.Split(content, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		options := make(map[string]any)
		for _, line := range strings.Split(segment, "\n") {
			if !strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			if err := parseCommentLine(line, options); err != nil {
				return nil, err
			}
		}

		queries = append(queries, Query{
			SQL:     strings.TrimSpace(segment) + ";",
			Options: options,
		})
	}

	return queries, nil
}

func parseCommentLine(line string, options map[string]any) error {
	line = strings.ReplaceAll(line, "--", "")

	var lifted []string
	for _, pattern := range []*regexp.Regexp{dataColumnsPattern, headingsPattern} {
		if match := pattern.FindString(line); match != "" {
			lifted = append(lifted, match)
			line = pattern.ReplaceAllString(line, "")
		}
	}

	fields := strings.Split(line, ",")
	fields = append(fields, lifted...)

	for _, field := range fields {
		var parts []string
		if strings.Contains(field, ":") {
			parts = strings.Split(field, ":")
		} else {
			parts = strings.Split(field, "=")
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		if len(parts) < 2 {
			// A bare "chart" marker requests a plain table export.
			if key != "chart" {
				continue
			}
			options["chart"] = "chart"
			continue
		}

		key = strings.ReplaceAll(key, " ", "_")
		if key == "" {
			continue
		}

		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "[") || strings.HasPrefix(value, "(") {
			options[key] = parseListLiteral(value)
			continue
		}
		options[key] = convertScalar(value)
	}

	return nil
}

// parseListLiteral parses a bracketed literal like "[1, 2, 3]" or "('a', 'b')"
// into a slice. Text that is not a closed literal passes through unchanged.
func parseListLiteral(text string) any {
	match := listPattern.FindStringSubmatch(text)
	if match == nil {
		return text
	}

	var elements []any
	for _, elem := range listSeparator.Split(match[1], -1) {
		elem = strings.Trim(strings.TrimSpace(elem), `'"`)
		if elem == "" {
			continue
		}
		elements = append(elements, convertScalar(elem))
	}
	if elements == nil {
		elements = []any{}
	}
	return elements
}

// convertScalar converts a string to the most specific value: bool, int,
// float, or the string itself.
func convertScalar(value string) any {
	switch strings.ToLower(value) {
	case "false":
		return false
	case "true":
		return true
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
