package sanity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_ConsumeAndReturnToken(t *testing.T) {
	s := NewStream("abc")
	s.Consume(3).ReturnToken(func(string) TokenKind { return KindIdentifier })

	tok, err := s.ExtractResult()
	assert.NoError(t, err)
	assert.Equal(t, "abc", tok.Text)
	assert.Equal(t, KindIdentifier, tok.Kind)
}

func TestStream_IgnoreDropsCharactersFromAccumulator(t *testing.T) {
	s := NewStream("  x")
	s.Ignore(2, true)
	s.Consume(1).ReturnToken(nil)

	tok, err := s.ExtractResult()
	assert.NoError(t, err)
	assert.Equal(t, "x", tok.Text)
	assert.Equal(t, 3, tok.Loc.StartCol)
}

func TestStream_CleanEndOfInputYieldsNoToken(t *testing.T) {
	s := NewStream("")
	tok, err := s.ExtractResult()
	assert.NoError(t, err)
	assert.Nil(t, tok)
}

func TestStream_FailLatchesSubsequentCallsAsNoOps(t *testing.T) {
	s := NewStream("abc")
	s.Fail("boom")
	s.Consume(3) // should be a no-op now

	_, err := s.ExtractResult()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStream_MatchDispatchesOnPattern(t *testing.T) {
	digit := regexp.MustCompile(`^[0-9]`)

	var ranThen, ranElse bool
	s := NewStream("1")
	s.Match(digit, 1, func(*Stream) { ranThen = true }, func(*Stream) { ranElse = true })
	assert.True(t, ranThen)
	assert.False(t, ranElse)
}

func TestStream_RepeatUntilStopsAtMatch(t *testing.T) {
	quote := regexp.MustCompile(`^"`)

	s := NewStream(`ab"`)
	s.RepeatUntil(quote, 1, func(s *Stream) { s.Consume(1) }, "")
	s.ReturnToken(nil)

	tok, err := s.ExtractResult()
	assert.NoError(t, err)
	assert.Equal(t, "ab", tok.Text)
}

func TestStream_RepeatUntilReportsEOF(t *testing.T) {
	quote := regexp.MustCompile(`^"`)

	s := NewStream("ab")
	s.RepeatUntil(quote, 1, func(s *Stream) { s.Consume(1) }, "unexpected EOF")

	_, err := s.ExtractResult()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestStream_ConsumeLiteralAppendsWithoutAdvancingInput(t *testing.T) {
	s := NewStream("xyz")
	s.ConsumeLiteral('Q')
	s.Ignore(1, false) // drop the real 'x'
	s.ReturnToken(nil)

	tok, err := s.ExtractResult()
	assert.NoError(t, err)
	assert.Equal(t, "Q", tok.Text)
}
