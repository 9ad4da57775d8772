package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	m := Message{
		Text("  hello "),
		At("10001"),
		Image("https://example.com/a.png"),
		Text("world  "),
		{Type: "face", Data: map[string]any{"id": "1"}},
		Image("https://example.com/b.png"),
		At("all"),
	}

	assert.Equal(t, "hello world", ExtractPlainText(m))
	assert.Equal(t, []string{"https://example.com/a.png", "https://example.com/b.png"}, ExtractImageURLs(m))
	assert.Equal(t, []string{"10001", "all"}, ExtractAtUsers(m))
}

func TestExtract_Empty(t *testing.T) {
	assert.Equal(t, "", ExtractPlainText(nil))
	assert.Empty(t, ExtractImageURLs(nil))
	assert.Empty(t, ExtractAtUsers(Message{Text("no mentions")}))
}

func TestExtractImageURLs_MissingURL(t *testing.T) {
	m := Message{{Type: TypeImage, Data: map[string]any{"file": "abc.image"}}}
	assert.Equal(t, []string{""}, ExtractImageURLs(m))
}

func TestParse(t *testing.T) {
	raw := []byte(`[
		{"type": "text", "data": {"text": "hi "}},
		{"type": "at", "data": {"qq": 123456}},
		{"type": "image", "data": {"url": "https://example.com/c.jpg"}}
	]`)

	m, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.Equal(t, "hi", ExtractPlainText(m))
	assert.Equal(t, []string{"123456"}, ExtractAtUsers(m))
	assert.Equal(t, []string{"https://example.com/c.jpg"}, ExtractImageURLs(m))
}

func TestParse_Shorthands(t *testing.T) {
	m, err := Parse([]byte(`"just text"`))
	require.NoError(t, err)
	assert.Equal(t, Message{Text("just text")}, m)

	m, err = Parse([]byte(`{"type": "at", "data": {"target": "42"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, ExtractAtUsers(m))

	_, err = Parse([]byte(`{not json`))
	assert.Error(t, err)
}
