package textio

import "io"

// WriteLine writes s unchanged, followed by a line feed.
func WriteLine(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
