// Package fileinput loads complete, named program sources from a queue of
// readers.
package fileinput

import (
	"fmt"
	"io"

	"github.com/jcorbin/goexpand/internal/runeio"
)

// Location names a source, and how many lines it spans.
type Location struct {
	Name  string
	Lines int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Lines) }

// Source is the full text of one input stream.
type Source struct {
	Location
	Text string
}

func (src Source) String() string { return fmt.Sprintf("%v %q", src.Location, src.Text) }

// Input reads each reader in Queue to completion, in order, as one Source.
type Input struct {
	Queue []io.Reader
}

// Next reads the next queued stream, closing it if it is an io.Closer.
// Returns io.EOF once the queue is empty.
func (in *Input) Next() (src Source, err error) {
	if len(in.Queue) == 0 {
		return src, io.EOF
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	if cl, ok := r.(io.Closer); ok {
		defer func() {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}()
	}

	rr := runeio.NewReader(r)
	src.Name = rr.Name()
	src.Text, src.Lines, err = runeio.ReadText(rr)
	if err != nil {
		return src, fmt.Errorf("failed to read %v: %w", src.Name, err)
	}
	return src, nil
}

// ReadAll reads every queued stream.
func (in *Input) ReadAll() (srcs []Source, err error) {
	for {
		src, err := in.Next()
		if err == io.EOF {
			return srcs, nil
		} else if err != nil {
			return srcs, err
		}
		srcs = append(srcs, src)
	}
}
