package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// Start displays an animated spinner with the given message on w. When w is
// not a terminal the message is printed once instead.
// Call the returned function to stop the spinner and clear the line.
func Start(w io.Writer, message string) (stop func()) {
	if !IsTerminal(w) {
		fmt.Fprintln(w, message) //nolint:errcheck
		return func() {}
	}
	return animate(w, message, interval)
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func animate(w io.Writer, message string, every time.Duration) func() {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(message)+2)) //nolint:errcheck
				close(cleared)
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], message) //nolint:errcheck
			}
		}
	}()

	return func() {
		stopOnce.Do(func() { close(done) })
		<-cleared
	}
}
