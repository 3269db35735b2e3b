package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/youngthe/gemini-demo/internal/domain"
)

// StripCodeFence removes a leading markdown fence line (with an optional
// language tag) and a trailing fence line from model output, then trims
// surrounding whitespace. Text without fences passes through unchanged.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line, language tag included
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}

	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	return strings.TrimSpace(text)
}

// decodeContentItems treats model output as untrusted input: it must decode
// to a non-empty JSON array of objects carrying exactly a non-empty title
// and content. Anything else is rejected wholesale; there is no partial
// acceptance.
func decodeContentItems(text string) ([]domain.ContentItem, error) {
	type strictItem struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var raw []strictItem
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("output is not a well-formed item array: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after item array")
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("output array is empty")
	}

	items := make([]domain.ContentItem, 0, len(raw))
	for i, it := range raw {
		if it.Title == nil || it.Content == nil {
			return nil, fmt.Errorf("item %d is missing title or content", i)
		}
		if strings.TrimSpace(*it.Title) == "" || strings.TrimSpace(*it.Content) == "" {
			return nil, fmt.Errorf("item %d has a blank title or content", i)
		}
		items = append(items, domain.ContentItem{Title: *it.Title, Content: *it.Content})
	}
	return items, nil
}
