package debugger

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Console is a CommandSource reading lines from a terminal.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole returns a Console reading from in and replying to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Next prompts and reads one line. It returns io.EOF when the input
// is exhausted.
func (c *Console) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(c.out, "(gbcore) "); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

// Reply writes msg on its own line.
func (c *Console) Reply(msg string) error {
	_, err := fmt.Fprintln(c.out, msg)
	return err
}
