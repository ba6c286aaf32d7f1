package sanity

import "regexp"

// The lexer drives a Stream through a fixed, ordered cascade for every token: skip whitespace/comments, then try
// identifier-or-keyword, integer literal, string literal, char literal, the "->" digraph, and finally a single
// punctuation character. Grounded on compiler/lexer/lexer.cpp in the original sanity-lang sources, restructured
// around Stream's Go chain instead of std::regex plus raw exceptions.
var (
	reSpaceOrComment  = regexp.MustCompile(`^([ \t\n\r]|//|/\*)`)
	reSpace           = regexp.MustCompile(`^[ \t\n\r]`)
	reLineComment     = regexp.MustCompile(`^//`)
	reBlockComment    = regexp.MustCompile(`^/\*`)
	reBlockCommentEnd = regexp.MustCompile(`^\*/`)
	reNewline         = regexp.MustCompile(`^\n`)

	reIdentStart = regexp.MustCompile(`^[A-Za-z_]`)
	reIdentCont  = regexp.MustCompile(`^[A-Za-z0-9_]`)
	reDigit      = regexp.MustCompile(`^[0-9]`)

	reDoubleQuote = regexp.MustCompile(`^"`)
	reSingleQuote = regexp.MustCompile(`^'`)
	reBackslash   = regexp.MustCompile(`^\\`)
	reStringStop  = regexp.MustCompile(`^["\n\t\r]`)
	reCharIllegal = regexp.MustCompile(`^[\n\t\r'"]`)
	reArrow       = regexp.MustCompile(`^->`)
)

// escapeRune maps the character following a backslash to its decoded value, per §4.2: n, r, t, ', ", \. Any other
// character is not a recognized escape.
func escapeRune(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	default:
		return 0, false
	}
}

// Lex tokenizes src in full and returns the ordered token sequence. Tokens appear in strict input order;
// whitespace and comments between tokens never appear in the output. The first lexical error aborts the entire
// scan: Lex returns a nil slice and that error.
func Lex(src string) ([]Token, error) {
	s := NewStream(src)

	var tokens []Token
	for {
		tok, err := lexOne(s)
		if err != nil {
			return nil, err
		}

		if tok == nil {
			return tokens, nil
		}

		tokens = append(tokens, *tok)
	}
}

// lexOne skips leading whitespace/comments, then produces exactly one token, or (nil, nil) at a clean end of
// input.
func lexOne(s *Stream) (*Token, error) {
	skipTrivia(s)

	if s.atEnd() {
		return s.ExtractResult()
	}

	switch r := s.Front(); {
	case reIdentStart.MatchString(string(r)):
		lexIdentifier(s)
	case reDigit.MatchString(string(r)):
		lexNumber(s)
	case r == '"':
		lexString(s)
	case r == '\'':
		lexChar(s)
	case reArrow.MatchString(s.peekString(2)):
		s.Consume(2).ReturnToken(func(string) TokenKind { return KindPunct })
	default:
		s.Consume(1).ReturnToken(func(string) TokenKind { return KindPunct })
	}

	return s.ExtractResult()
}

// skipTrivia drops ASCII whitespace, "//" line comments, and "/* ... */" block comments between tokens. An
// unterminated block comment is a fatal syntax error.
func skipTrivia(s *Stream) {
	s.RepeatWhile(reSpaceOrComment, 2, func(s *Stream) {
		s.RepeatWhile(reSpace, 1, func(s *Stream) { s.Ignore(1, true) }, "")

		s.Match(reLineComment, 2, func(s *Stream) {
			s.Ignore(2, true)
			s.IgnoreUntil(reNewline, 1, true, "")
			s.Ignore(1, true) // the newline itself, if present
		}, nil)

		s.Match(reBlockComment, 2, func(s *Stream) {
			s.Ignore(2, true)
			s.IgnoreUntil(reBlockCommentEnd, 2, true, "unexpected EOF in block comment")
			s.Ignore(2, true)
		}, nil)
	}, "")
}

// lexIdentifier consumes a maximal [A-Za-z_][A-Za-z0-9_]* run and emits it as KindIdentifier. The parser, not the
// lexer, decides whether the text names a keyword.
func lexIdentifier(s *Stream) {
	s.Consume(1)
	s.ConsumeWhile(reIdentCont, 1, "")
	s.ReturnToken(func(string) TokenKind { return KindIdentifier })
}

// lexNumber consumes a maximal run of decimal digits and emits it as KindInteger.
func lexNumber(s *Stream) {
	s.ConsumeWhile(reDigit, 1, "")
	s.ReturnToken(func(string) TokenKind { return KindInteger })
}

// lexString consumes a double-quoted string literal, decoding escapes as it goes. A bare newline, tab, or
// carriage return inside the literal is rejected, as is a literal single quote (callers must write \' instead). An
// unterminated literal is a fatal syntax error.
func lexString(s *Stream) {
	s.Ignore(1, false) // opening quote

	s.RepeatUntil(reStringStop, 1, func(s *Stream) {
		s.Match(reBackslash, 1, func(s *Stream) {
			s.Ignore(1, false) // backslash
			decodeEscape(s)
		}, func(s *Stream) {
			s.Match(reSingleQuote, 1, func(s *Stream) {
				s.Fail(`cannot use ' in a string literal, use \' instead`)
			}, func(s *Stream) {
				s.Consume(1)
			})
		})
	}, "unexpected EOF in string literal")

	s.Match(reDoubleQuote, 1, func(s *Stream) {
		s.Ignore(1, false) // closing quote
		s.ReturnToken(func(string) TokenKind { return KindString })
	}, func(s *Stream) {
		s.Fail("illegal character in string")
	})
}

// lexChar consumes exactly one character-literal body (escape or literal rune) between single quotes.
func lexChar(s *Stream) {
	s.Ignore(1, false) // opening quote

	s.Match(reBackslash, 1, func(s *Stream) {
		s.Ignore(1, false) // backslash
		decodeEscape(s)
	}, func(s *Stream) {
		if s.atEnd() || reCharIllegal.MatchString(string(s.Front())) {
			s.Fail("illegal character in character literal")
			return
		}

		s.Consume(1)
	})

	s.Match(reSingleQuote, 1, func(s *Stream) {
		s.Ignore(1, false) // closing quote
		s.ReturnToken(func(string) TokenKind { return KindChar })
	}, func(s *Stream) {
		s.Fail("expected closing ' in character literal")
	})
}

// decodeEscape reads the rune following an already-consumed backslash, decodes it, and appends the decoded rune
// to the accumulator. Anything other than n/r/t/'/"/\ is a fatal syntax error.
func decodeEscape(s *Stream) {
	if s.atEnd() {
		s.Fail("unexpected EOF in escape sequence")
		return
	}

	decoded, ok := escapeRune(s.Front())
	if !ok {
		s.Fail("unrecognized escape sequence")
		return
	}

	s.ConsumeLiteral(decoded)
	s.Ignore(1, false)
}
