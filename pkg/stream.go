package sanity

import "regexp"

// Stream is a cursor over the characters of a source file, used by Lex to build tokens one rune at a time. It
// owns two buffers: an accumulator of runes tentatively belonging to the token under construction, and the
// remaining unread input. Line/column tracking and the "latch" (see ReturnToken) live here rather than in the
// lexer itself, so the lexer's matchers can stay a flat, declarative cascade.
//
// Grounded on the original sanity-lang Stream (compiler/lexer/stream.h): front/ignore/consume/match/repeatWhile/
// repeatUntil/returnToken/extractResult map directly onto the methods below. std::regex becomes *regexp.Regexp;
// the exception-based abort on a fatal lexical error becomes a sticky error field, checked at the top of every
// mutating method, so a flat chain of calls (Stream.Match(...).Match(...).Match(...), as the lexer writes it)
// short-circuits the moment something goes wrong without needing to thread an error return through every call.
type Stream struct {
	remaining []rune
	acc       []rune

	line     int
	startCol int
	col      int

	latched bool
	pending *Token

	err error
}

// NewStream creates a Stream over src, with the cursor at line 1, column 1.
func NewStream(src string) *Stream {
	return &Stream{remaining: []rune(src), line: 1, startCol: 1, col: 1}
}

// atEnd reports whether the stream has no more unread input.
func (s *Stream) atEnd() bool {
	return len(s.remaining) == 0
}

// blocked reports whether the stream should ignore further mutating calls: either a fatal error has already been
// recorded, or a token has been latched and is waiting for ExtractResult.
func (s *Stream) blocked() bool {
	return s.err != nil || s.latched
}

// Front peeks the next unread character without consuming it. It records an IllegalStateError if input is
// exhausted; callers that expect possible exhaustion should check atEnd first.
func (s *Stream) Front() rune {
	if s.blocked() {
		return 0
	}

	if s.atEnd() {
		s.err = &IllegalStateError{Reason: "Front called with no input remaining"}
		return 0
	}

	return s.remaining[0]
}

// peekString returns up to limit unread runes, without consuming them, for use as the subject of a pattern match.
func (s *Stream) peekString(limit int) string {
	n := limit
	if n > len(s.remaining) {
		n = len(s.remaining)
	}

	return string(s.remaining[:n])
}

// advance moves n unread runes past the cursor, updating line/column bookkeeping. If toAcc is true the runes are
// appended to the accumulator; otherwise they're dropped. If updateStart is true and the accumulator is still
// empty, the token-start column follows the cursor (so whitespace/comments skipped between tokens don't pollute
// the next token's span).
func (s *Stream) advance(n int, toAcc bool, updateStart bool) {
	for i := 0; i < n && !s.atEnd(); i++ {
		r := s.remaining[0]
		s.remaining = s.remaining[1:]

		if toAcc {
			s.acc = append(s.acc, r)
		}

		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}

		if updateStart && len(s.acc) == 0 {
			s.startCol = s.col
		}
	}
}

// Ignore drops n unread characters without adding them to the accumulator. When updatePos is true, the token's
// start column is advanced past the dropped run; this is how whitespace and comments between tokens disappear
// from the next token's span.
func (s *Stream) Ignore(n int, updatePos bool) *Stream {
	if s.blocked() {
		return s
	}

	s.advance(n, false, updatePos)
	return s
}

// Consume moves n characters from the input to the accumulator.
func (s *Stream) Consume(n int) *Stream {
	if s.blocked() {
		return s
	}

	s.advance(n, true, false)
	return s
}

// ConsumeLiteral appends a literal rune to the accumulator without advancing the input cursor. It's used when a
// logical token character differs from the source byte, i.e. escape decoding.
func (s *Stream) ConsumeLiteral(r rune) *Stream {
	if s.blocked() {
		return s
	}

	s.acc = append(s.acc, r)
	return s
}

// Match invokes thenFn if the next up-to-limit input characters match pattern, else invokes elseFn if non-nil.
func (s *Stream) Match(pattern *regexp.Regexp, limit int, thenFn func(*Stream), elseFn func(*Stream)) *Stream {
	if s.blocked() {
		return s
	}

	if pattern.MatchString(s.peekString(limit)) {
		thenFn(s)
	} else if elseFn != nil {
		elseFn(s)
	}

	return s
}

// repeat is the shared engine behind RepeatWhile/RepeatUntil: invoke fn for as long as matched(pattern) holds,
// stopping early (and raising a SyntaxError) if the input is exhausted and eofMsg is non-empty.
func (s *Stream) repeat(pattern *regexp.Regexp, limit int, fn func(*Stream), eofMsg string, invert bool) *Stream {
	for !s.blocked() {
		matched := pattern.MatchString(s.peekString(limit))
		if invert {
			matched = !matched
		}

		if !matched {
			return s
		}

		if s.atEnd() {
			if eofMsg != "" {
				s.fail(eofMsg)
			}

			return s
		}

		fn(s)
	}

	return s
}

// RepeatWhile invokes fn for as long as pattern matches the next up-to-limit input characters. If the input is
// exhausted while pattern still matches and eofMsg is non-empty, a SyntaxError is raised.
func (s *Stream) RepeatWhile(pattern *regexp.Regexp, limit int, fn func(*Stream), eofMsg string) *Stream {
	return s.repeat(pattern, limit, fn, eofMsg, false)
}

// RepeatUntil invokes fn for as long as pattern does not match the next up-to-limit input characters. If the
// input is exhausted before pattern matches and eofMsg is non-empty, a SyntaxError is raised.
func (s *Stream) RepeatUntil(pattern *regexp.Regexp, limit int, fn func(*Stream), eofMsg string) *Stream {
	return s.repeat(pattern, limit, fn, eofMsg, true)
}

// ConsumeWhile is shorthand for RepeatWhile(pattern, limit, fn, eofMsg) where fn consumes one character.
func (s *Stream) ConsumeWhile(pattern *regexp.Regexp, limit int, eofMsg string) *Stream {
	return s.RepeatWhile(pattern, limit, func(s *Stream) { s.Consume(1) }, eofMsg)
}

// IgnoreWhile is shorthand for RepeatWhile(pattern, limit, fn, eofMsg) where fn ignores one character, passing
// updatePos through to Ignore.
func (s *Stream) IgnoreWhile(pattern *regexp.Regexp, limit int, updatePos bool, eofMsg string) *Stream {
	return s.RepeatWhile(pattern, limit, func(s *Stream) { s.Ignore(1, updatePos) }, eofMsg)
}

// IgnoreUntil is shorthand for RepeatUntil(pattern, limit, fn, eofMsg) where fn ignores one character, passing
// updatePos through to Ignore.
func (s *Stream) IgnoreUntil(pattern *regexp.Regexp, limit int, updatePos bool, eofMsg string) *Stream {
	return s.RepeatUntil(pattern, limit, func(s *Stream) { s.Ignore(1, updatePos) }, eofMsg)
}

// fail records a fatal SyntaxError at the current position. Once set, every mutating Stream method becomes a
// no-op, so a failure raised deep inside a matcher cascade aborts the rest of the cascade without needing to be
// threaded back up by hand.
func (s *Stream) fail(msg string) {
	s.err = &SyntaxError{
		Loc:     Span{Line: s.line, StartCol: s.startCol, EndCol: s.col},
		Message: msg,
	}
}

// Fail is the public form of fail, for use by the lexer when it detects an error the stream's own combinators
// can't express (e.g. "use \\' instead").
func (s *Stream) Fail(msg string) {
	if s.blocked() {
		return
	}

	s.fail(msg)
}

// ReturnToken freezes the current accumulator into a pending token. The optional build function receives the
// accumulated text and returns the token's kind; if nil, the token is tagged KindIdentifier. After this call the
// stream is latched: every further mutating call is a no-op until ExtractResult is called.
func (s *Stream) ReturnToken(build func(text string) TokenKind) {
	if s.blocked() {
		return
	}

	kind := KindIdentifier
	text := string(s.acc)
	if build != nil {
		kind = build(text)
	}

	s.pending = &Token{
		Text: text,
		Kind: kind,
		Loc:  Span{Line: s.line, StartCol: s.startCol, EndCol: s.col},
	}
	s.latched = true
}

// ExtractResult returns the pending token (if any), clears the latch, and resets the accumulator and the token's
// start column to the cursor's current column. It returns (nil, nil) only on a clean end: input exhausted, no
// token pending, and nothing left in the accumulator. A non-empty accumulator with no latched token and no more
// input is a programmer error (some matcher consumed characters but never called ReturnToken).
func (s *Stream) ExtractResult() (*Token, error) {
	if s.err != nil {
		return nil, s.err
	}

	tok := s.pending
	hadAcc := len(s.acc) != 0
	s.pending = nil
	s.latched = false
	s.acc = nil
	s.startCol = s.col

	if tok != nil {
		return tok, nil
	}

	if s.atEnd() && !hadAcc {
		return nil, nil
	}

	return nil, &IllegalStateError{Reason: "stream exhausted its accumulator without producing a token"}
}
