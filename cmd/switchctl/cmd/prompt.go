package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/NordCoder/Deadswitch/internal/services/switches"
)

var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptConfirmer asks on out and reads one answer from in; only y or yes accepts.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !isTerminal(p.in) {
		return false, errNoTerminal
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

func deleteConfirmer(assumeYes bool, in io.Reader, out io.Writer) switches.Confirmer {
	if assumeYes {
		return switches.Confirmed
	}
	return promptConfirmer{in: in, out: out}
}
