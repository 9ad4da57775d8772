package text

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Kind selects one of the built-in alphabets used by the random string generator.
type Kind string

const (
	KindNumeric      Kind = "numeric"
	KindAlpha        Kind = "alpha"
	KindAlphanumeric Kind = "alphanumeric"
)

const (
	digits    = "0123456789"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
)

// ErrInvalidArgument is returned for malformed generator requests.
var ErrInvalidArgument = errors.New("invalid argument")

type randomOptions struct {
	prefix     string
	kind       Kind
	charset    string
	hasCharset bool
	count      int
	seed       *int64
	start      *int
	end        *int
	rng        *rand.Rand
}

// Option configures a random string request.
type Option func(*randomOptions)

// WithPrefix overlays p onto the front of every generated string. The string
// keeps its length; a prefix longer than the string is cut to fit.
func WithPrefix(p string) Option {
	return func(o *randomOptions) { o.prefix = p }
}

// WithKind selects a built-in alphabet. It is ignored when WithCharset is set.
func WithKind(k Kind) Option {
	return func(o *randomOptions) { o.kind = k }
}

// WithCharset draws characters from cs instead of a built-in alphabet.
func WithCharset(cs string) Option {
	return func(o *randomOptions) {
		o.charset = cs
		o.hasCharset = true
	}
}

// WithCount sets how many strings Generate produces.
func WithCount(n int) Option {
	return func(o *randomOptions) { o.count = n }
}

// WithSeed makes the output reproducible: equal seeds and options yield equal strings.
func WithSeed(seed int64) Option {
	return func(o *randomOptions) { o.seed = &seed }
}

// WithStartIndex sets the first index of the substring range.
func WithStartIndex(i int) Option {
	return func(o *randomOptions) { o.start = &i }
}

// WithEndIndex sets the last (inclusive) index of the substring range.
func WithEndIndex(i int) Option {
	return func(o *randomOptions) { o.end = &i }
}

// WithRange is shorthand for WithStartIndex(start) and WithEndIndex(end).
// The generated strings are end-start+1 characters long.
func WithRange(start, end int) Option {
	return func(o *randomOptions) {
		o.start = &start
		o.end = &end
	}
}

// WithRand draws from r. It takes precedence over WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(o *randomOptions) { o.rng = r }
}

func (o *randomOptions) alphabet() ([]rune, error) {
	if o.hasCharset {
		if o.charset == "" {
			return nil, fmt.Errorf("%w: charset must not be empty", ErrInvalidArgument)
		}
		return []rune(o.charset), nil
	}

	switch o.kind {
	case KindNumeric:
		return []rune(digits), nil
	case KindAlpha:
		return []rune(lowercase), nil
	case KindAlphanumeric:
		return []rune(lowercase + digits), nil
	default:
		return nil, fmt.Errorf("%w: kind %q must be one of %q, %q, %q",
			ErrInvalidArgument, o.kind, KindNumeric, KindAlpha, KindAlphanumeric)
	}
}

func (o *randomOptions) source() *rand.Rand {
	if o.rng != nil {
		return o.rng
	}
	if o.seed != nil {
		s := uint64(*o.seed)
		return rand.New(rand.NewPCG(s, s))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generate returns random strings of the given length, one per WithCount (default 1),
// in generation order. Characters are drawn independently and uniformly from the
// resolved alphabet (lowercase letters unless configured otherwise).
func Generate(length int, opts ...Option) ([]string, error) {
	o := randomOptions{kind: KindAlpha, count: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidArgument, length)
	}
	if o.count < 1 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, o.count)
	}

	alphabet, err := o.alphabet()
	if err != nil {
		return nil, err
	}

	n := length
	if o.start != nil && o.end != nil {
		start, end := *o.start, *o.end
		if start < 0 || end < 0 || start >= length || end >= length || start > end {
			return nil, fmt.Errorf("%w: range [%d, %d] outside length %d", ErrInvalidArgument, start, end, length)
		}
		n = end - start + 1
	}

	prefix := []rune(o.prefix)
	if len(prefix) > n {
		prefix = prefix[:n]
	}

	rng := o.source()
	out := make([]string, 0, o.count)
	buf := make([]rune, n)
	for range o.count {
		for i := range buf {
			buf[i] = alphabet[rng.IntN(len(alphabet))]
		}
		copy(buf, prefix)
		out = append(out, string(buf))
	}
	return out, nil
}

// withCount appends WithCount(n) to a copy of opts so the caller's backing
// array is never written.
func withCount(opts []Option, n int) []Option {
	return append(opts[:len(opts):len(opts)], WithCount(n))
}

// RandomString returns a single random string. WithCount is ignored.
func RandomString(length int, opts ...Option) (string, error) {
	out, err := Generate(length, withCount(opts, 1)...)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// RandomStrings returns count random strings.
func RandomStrings(length, count int, opts ...Option) ([]string, error) {
	return Generate(length, withCount(opts, count)...)
}
