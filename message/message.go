// Package message models platform chat messages as ordered segments and
// extracts their plain text, image URLs and mentioned users.
package message

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Segment types understood by the extractors. Other types are kept as-is.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeAt    = "at"
)

// Segment is one element of a message, e.g.
//
//	{"type": "image", "data": {"url": "https://..."}}
type Segment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Str returns Data[key] when it is a string (or a number, as sent by some
// platforms for user ids).
func (s Segment) Str(key string) (string, bool) {
	switch v := s.Data[key].(type) {
	case string:
		return v, true
	case float64:
		return fmt.Sprintf("%.0f", v), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Text builds a text segment.
func Text(s string) Segment {
	return Segment{Type: TypeText, Data: map[string]any{"text": s}}
}

// Image builds an image segment.
func Image(url string) Segment {
	return Segment{Type: TypeImage, Data: map[string]any{"url": url}}
}

// At builds a mention segment.
func At(target string) Segment {
	return Segment{Type: TypeAt, Data: map[string]any{"target": target}}
}

// Message is an ordered list of segments.
type Message []Segment

// Parse decodes a message from JSON. A bare JSON string is treated as a
// single text segment and a single object as a one-segment message.
func Parse(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err == nil {
		return m, nil
	}

	var seg Segment
	if err := json.Unmarshal(raw, &seg); err == nil && seg.Type != "" {
		return Message{seg}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return Message{Text(s)}, nil
}

// Only returns the segments of the given type, in order.
func (m Message) Only(segType string) Message {
	var out Message
	for _, seg := range m {
		if seg.Type == segType {
			out = append(out, seg)
		}
	}
	return out
}

// ExtractPlainText concatenates the text segments and trims surrounding
// whitespace.
func ExtractPlainText(m Message) string {
	var b strings.Builder
	for _, seg := range m.Only(TypeText) {
		text, _ := seg.Str("text")
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String())
}

// ExtractImageURLs returns the URL of every image segment in order. Images
// without a URL yield "".
func ExtractImageURLs(m Message) []string {
	images := m.Only(TypeImage)
	urls := make([]string, 0, len(images))
	for _, seg := range images {
		url, _ := seg.Str("url")
		urls = append(urls, url)
	}
	return urls
}

// ExtractAtUsers returns the target user id of every mention in order.
// OneBot-style "qq" keys are accepted as well as "target".
func ExtractAtUsers(m Message) []string {
	ats := m.Only(TypeAt)
	users := make([]string, 0, len(ats))
	for _, seg := range ats {
		target, ok := seg.Str("target")
		if !ok {
			target, _ = seg.Str("qq")
		}
		users = append(users, target)
	}
	return users
}
