package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	green = "\033[32m"
)

// PrintFunc prints one formatted line, like display.UI.Printf.
type PrintFunc func(format string, a ...any)

// Notification is a message that was shown to the user.
type Notification struct {
	Text   string
	Urgent bool
	At     time.Time
}

// CLINotifier prints transient notifications and remembers the latest one
// so a status bar can keep showing it.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	now     func() time.Time

	mu   sync.Mutex
	last Notification
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn, now: time.Now}
}

// Notify prints a normal notification in green.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.record(message, false)
	n.printFn("%s%s%s", green, message, reset)
	return nil
}

// NotifyUrgent prints a failure notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.record(message, true)
	n.printFn("%s%s%s%s", red, bold, message, reset)
	return nil
}

// Last returns the most recent notification, if it is younger than maxAge.
func (n *CLINotifier) Last(maxAge time.Duration) (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last.Text == "" || n.now().Sub(n.last.At) > maxAge {
		return Notification{}, false
	}
	return n.last, true
}

func (n *CLINotifier) record(message string, urgent bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = Notification{Text: message, Urgent: urgent, At: n.now()}
}
