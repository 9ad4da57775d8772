package text

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allIn(s, charset string) bool {
	for _, r := range s {
		if !strings.ContainsRune(charset, r) {
			return false
		}
	}
	return true
}

func TestRandomString_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		charset string
	}{
		{name: "default alpha", charset: lowercase},
		{name: "alpha", opts: []Option{WithKind(KindAlpha)}, charset: lowercase},
		{name: "numeric", opts: []Option{WithKind(KindNumeric)}, charset: digits},
		{name: "alphanumeric", opts: []Option{WithKind(KindAlphanumeric)}, charset: lowercase + digits},
		{name: "custom", opts: []Option{WithCharset("ABCD1234")}, charset: "ABCD1234"},
		{name: "custom overrides kind", opts: []Option{WithKind(KindNumeric), WithCharset("xyz")}, charset: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := RandomString(12, tt.opts...)
			require.NoError(t, err)
			assert.Len(t, s, 12)
			assert.True(t, allIn(s, tt.charset), "%q has characters outside %q", s, tt.charset)
		})
	}
}

func TestRandomString_MultibyteCharset(t *testing.T) {
	s, err := RandomString(7, WithCharset("你好世界"))
	require.NoError(t, err)
	assert.Equal(t, 7, utf8.RuneCountInString(s))
	assert.True(t, allIn(s, "你好世界"))
}

func TestRandomString_Prefix(t *testing.T) {
	s, err := RandomString(5, WithPrefix("ABC"), WithKind(KindAlpha))
	require.NoError(t, err)
	assert.Len(t, s, 5)
	assert.True(t, strings.HasPrefix(s, "ABC"))
	assert.True(t, allIn(s[3:], lowercase))
}

func TestRandomString_PrefixLongerThanString(t *testing.T) {
	s, err := RandomString(3, WithPrefix("ABCDEF"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", s)
}

func TestRandomString_SeedIsDeterministic(t *testing.T) {
	a, err := RandomString(10, WithSeed(123))
	require.NoError(t, err)
	b, err := RandomString(10, WithSeed(123))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	many1, err := RandomStrings(10, 4, WithSeed(7), WithKind(KindAlphanumeric))
	require.NoError(t, err)
	many2, err := RandomStrings(10, 4, WithSeed(7), WithKind(KindAlphanumeric))
	require.NoError(t, err)
	assert.Equal(t, many1, many2)
}

func TestRandomString_SeedDoesNotLeak(t *testing.T) {
	seeded, err := RandomString(32, WithSeed(1))
	require.NoError(t, err)

	// A later unseeded call must not replay the seeded sequence.
	unseeded, err := RandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, seeded, unseeded)
}

func TestRandomString_WithRand(t *testing.T) {
	a, err := RandomString(16, WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	b, err := RandomString(16, WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRandomString_Range(t *testing.T) {
	s, err := RandomString(8, WithRange(2, 5))
	require.NoError(t, err)
	assert.Len(t, s, 4)
	assert.True(t, allIn(s, lowercase))

	s, err = RandomString(6, WithPrefix("ABC"), WithRange(1, 4))
	require.NoError(t, err)
	assert.Len(t, s, 4)
	assert.True(t, strings.HasPrefix(s, "ABC"))

	s, err = RandomString(8, WithRange(3, 3))
	require.NoError(t, err)
	assert.Len(t, s, 1)
}

func TestRandomString_SingleIndexIgnored(t *testing.T) {
	s, err := RandomString(8, WithStartIndex(5))
	require.NoError(t, err)
	assert.Len(t, s, 8)

	s, err = RandomString(8, WithEndIndex(20))
	require.NoError(t, err)
	assert.Len(t, s, 8)
}

func TestRandomStrings_Count(t *testing.T) {
	out, err := RandomStrings(6, 3, WithKind(KindAlphanumeric))
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, s := range out {
		assert.Len(t, s, 6)
		assert.True(t, allIn(s, lowercase+digits))
	}
}

func TestGenerate_Count(t *testing.T) {
	out, err := Generate(4, WithCount(5), WithPrefix("x"))
	require.NoError(t, err)
	require.Len(t, out, 5)
	for _, s := range out {
		assert.True(t, strings.HasPrefix(s, "x"))
	}
}

func TestGenerate_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		length int
		opts   []Option
	}{
		{name: "zero length", length: 0},
		{name: "negative length", length: -3},
		{name: "unknown kind", length: 4, opts: []Option{WithKind("hex")}},
		{name: "empty charset", length: 4, opts: []Option{WithCharset("")}},
		{name: "zero count", length: 4, opts: []Option{WithCount(0)}},
		{name: "start after end", length: 8, opts: []Option{WithRange(5, 2)}},
		{name: "negative start", length: 8, opts: []Option{WithRange(-1, 2)}},
		{name: "end out of bounds", length: 8, opts: []Option{WithRange(2, 8)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.length, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestGenerate_UnknownKindWithCharset(t *testing.T) {
	s, err := RandomString(4, WithKind("hex"), WithCharset("01"))
	require.NoError(t, err)
	assert.True(t, allIn(s, "01"))
}

func TestRandomStrings_SharedOptions(t *testing.T) {
	shared := make([]Option, 1, 8)
	shared[0] = WithKind(KindNumeric)

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			out, err := RandomStrings(4, 2, shared...)
			assert.NoError(t, err)
			assert.Len(t, out, 2)
		}()
		go func() {
			defer wg.Done()
			out, err := RandomStrings(4, 5, shared...)
			assert.NoError(t, err)
			assert.Len(t, out, 5)
		}()
	}
	wg.Wait()

	assert.Len(t, shared, 1)
	assert.Nil(t, shared[:2][1], "spare capacity was written")
}
