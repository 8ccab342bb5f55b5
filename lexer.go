package main

import "strings"

const (
	defaultSeparators       = "\t\n\f\r "
	defaultPrimarySeparator = " "
)

// LexerConfig holds the character classes that drive tokenization. It is
// owned by the VM and shared by reference with both the tokenizer and the
// environment, so that system variable writes take effect on the very next
// word read.
type LexerConfig struct {
	// Uniques are characters that always form a word by themselves.
	Uniques string

	// Separators delimit words, and are never part of one.
	Separators string

	// PrimarySeparator is only stored and reported through the environment.
	PrimarySeparator string
}

func defaultLexerConfig() LexerConfig {
	return LexerConfig{
		Separators:       defaultSeparators,
		PrimarySeparator: defaultPrimarySeparator,
	}
}

func (lc *LexerConfig) isSeparator(r rune) bool { return strings.ContainsRune(lc.Separators, r) }
func (lc *LexerConfig) isUnique(r rune) bool    { return strings.ContainsRune(lc.Uniques, r) }

// programContext is a layer of program text being read.
type programContext struct {
	text   []rune
	cursor int
}

func newProgramContext(text string) *programContext {
	return &programContext{text: []rune(text)}
}

func (pc *programContext) current() (rune, bool) {
	if pc.cursor < len(pc.text) {
		return pc.text[pc.cursor], true
	}
	return 0, false
}

func (pc *programContext) remaining() string {
	if pc.cursor < len(pc.text) {
		return string(pc.text[pc.cursor:])
	}
	return ""
}

// tokenizer reads words from a stack of program contexts, the most recently
// pushed context is read first, falling through to the one beneath once it
// is exhausted.
type tokenizer struct {
	config   *LexerConfig
	contexts []*programContext
	limit    int

	// exhausted, if set, is called with the stack index of each context
	// dropped once it runs out of text.
	exhausted func(index int)
}

func (tok *tokenizer) push(text string) error {
	if tok.limit > 0 && len(tok.contexts) >= tok.limit {
		return contextLimitError(tok.limit)
	}
	tok.contexts = append(tok.contexts, newProgramContext(text))
	return nil
}

func (tok *tokenizer) pop() *programContext {
	i := len(tok.contexts) - 1
	pc := tok.contexts[i]
	tok.contexts[i] = nil
	tok.contexts = tok.contexts[:i]
	return pc
}

func (tok *tokenizer) depth() int { return len(tok.contexts) }

// drop reports a context just popped for good.
func (tok *tokenizer) drop() {
	if tok.exhausted != nil {
		tok.exhausted(len(tok.contexts))
	}
}

func (tok *tokenizer) reset() {
	for i := range tok.contexts {
		tok.contexts[i] = nil
	}
	tok.contexts = tok.contexts[:0]
}

// next returns the next word, or false once every context is exhausted.
func (tok *tokenizer) next() (string, bool) {
	cfg := tok.config
	for len(tok.contexts) > 0 {
		pc := tok.pop()

		r, ok := pc.current()
		for ok && cfg.isSeparator(r) {
			pc.cursor++
			r, ok = pc.current()
		}
		if !ok {
			tok.drop()
			continue
		}

		if cfg.isUnique(r) {
			pc.cursor++
			tok.contexts = append(tok.contexts, pc)
			return string(r), true
		}

		var sb strings.Builder
		for ok && !cfg.isSeparator(r) && !cfg.isUnique(r) {
			sb.WriteRune(r)
			pc.cursor++
			r, ok = pc.current()
		}
		if ok {
			tok.contexts = append(tok.contexts, pc)
		} else {
			tok.drop()
		}
		return sb.String(), true
	}
	return "", false
}

// words tokenizes text to completion under config, independently of any
// other tokenizer state.
func words(config *LexerConfig, text string) (ws []string) {
	tok := tokenizer{config: config}
	tok.contexts = append(tok.contexts, newProgramContext(text))
	for {
		word, ok := tok.next()
		if !ok {
			return ws
		}
		ws = append(ws, word)
	}
}
