// Package jsonutil provides tolerant JSON extraction from LLM responses.
// Agents instruct the model to respond with JSON only, but real responses
// arrive wrapped in prose, markdown code fences, or trailing commentary;
// this package locates the first balanced object and decodes it.
package jsonutil

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject indicates no balanced {...} object could be located.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// ExtractObject locates the first balanced {...} span in text, tolerating
// surrounding prose and ```json code fences, and returns the raw span.
func ExtractObject(text string) (string, error) {
	text = stripCodeFences(text)

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// stripCodeFences removes a single leading ```json / ``` fence and its
// closing counterpart, if present, leaving the interior untouched.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.SplitN(trimmed, "\n", 2)
	if len(lines) < 2 {
		return text
	}
	body := lines[1]
	if idx := strings.LastIndex(body, "```"); idx != -1 {
		body = body[:idx]
	}
	return body
}

// Decode extracts the first balanced JSON object from text and unmarshals
// it into v.
func Decode(text string, v any) error {
	obj, err := ExtractObject(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(obj), v)
}
