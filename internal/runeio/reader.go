package runeio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by ReadText for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Reader reads runes from a named stream.
type Reader interface {
	io.RuneReader
	Name() string
}

// NewReader returns a Reader around r, buffering it unless it already reads
// runes. The name comes from r's Name method when it has one, otherwise it
// describes r's type.
func NewReader(r io.Reader) Reader {
	name := NameOf(r)
	if rr, ok := r.(io.RuneReader); ok {
		return namedRuneReader{rr, name}
	}
	return namedRuneReader{bufio.NewReader(r), name}
}

type namedRuneReader struct {
	io.RuneReader
	name string
}

func (nr namedRuneReader) Name() string { return nr.name }

// NameOf returns obj's Name(), or "<unnamed T>" if it has no such method.
func NameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// ReadText reads all remaining runes from rr, counting lines; a final line
// without a trailing newline still counts. Invalid UTF-8 is an error wrapping
// ErrInvalidUTF8.
func ReadText(rr io.RuneReader) (text string, lines int, err error) {
	var sb strings.Builder
	for {
		r, size, err := rr.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return sb.String(), lines, err
		}
		if r == utf8.RuneError && size == 1 {
			return sb.String(), lines, fmt.Errorf("%w at line %v", ErrInvalidUTF8, lines+1)
		}
		sb.WriteRune(r)
		if r == '\n' {
			lines++
		}
	}
	text = sb.String()
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	return text, lines, nil
}
