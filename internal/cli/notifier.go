package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
)

// Notifier prints view-model notifications as transient lines on stderr.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNotifier() *Notifier {
	return &Notifier{w: os.Stderr}
}

func (n *Notifier) Notify(note orders.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := "*"
	if note.Level == orders.LevelError {
		prefix = "!"
	}
	fmt.Fprintf(n.w, "%s %s", prefix, note.Message)
	if len(note.Orders) > 0 {
		ids := make([]string, 0, len(note.Orders))
		for _, id := range note.Orders {
			ids = append(ids, "#"+id.String())
		}
		fmt.Fprintf(n.w, " (%s)", strings.Join(ids, ", "))
	}
	fmt.Fprintln(n.w)
}

type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c promptConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [s/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

func (r *Runner) confirmer() orders.Confirmer {
	return promptConfirmer{in: r.in, out: r.errOut, assumeYes: r.options.Yes}
}

func parseID(args []string) (api.ID, []string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", args, api.ErrMissingID
	}
	return api.ID(strings.TrimPrefix(strings.TrimSpace(args[0]), "#")), args[1:], nil
}
