// Package display is the terminal shell: a one-line status bar (where the
// user is, whether that view is loading, the latest notification) above an
// input prompt.
//
// Output is written above the rendered area with Program.Println, so any
// goroutine may print while the user is typing.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipemate/internal/domain"
)

const (
	prompt    = "recipemate> "
	textWidth = 76
	pollEvery = time.Second
)

// BackCommand is sent on the input channel when the user presses Esc.
const BackCommand = "back"

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

var (
	slate = "#94a3b8"
	red   = "#fca5a5"
	green = "#bbf7d0"

	barStyle     = fg("#a1a1aa").Background(lipgloss.Color("#27272a"))
	crumbStyle   = fg("#e4e4e7").Bold(true)
	loadingStyle = fg("#fde68a")
	errorStyle   = fg(red)
	okStyle      = fg(green)
	sepStyle     = fg("#52525b")

	// BannerStyle is used for the startup banner.
	BannerStyle = fg(slate)

	promptStyle  = fg(slate)
	echoStyle    = fg("#a1a1aa")
	chatStyle    = fg("#bae6fd")
	headingStyle = fg(green).Bold(true)
	bodyStyle    = fg("#d4d4d8")
	dimStyle     = fg("#71717a")
)

// StatusSource feeds the status bar. It is polled once a second.
type StatusSource interface {
	Breadcrumb() string
	ActiveStatus() domain.ViewStatus
}

// NoticeFunc returns the latest notification worth keeping on the bar.
type NoticeFunc func() (text string, urgent bool, ok bool)

// UI owns the terminal while Run is executing.
//
// Printing and reading InputChan are safe from any goroutine once
// WaitReady has returned.
type UI struct {
	program *tea.Program
	lines   chan string
	ready   chan struct{}
	stopped atomic.Bool

	status StatusSource
	notice NoticeFunc
}

// NewUI creates the display. notice may be nil.
func NewUI(status StatusSource, notice NoticeFunc) *UI {
	return &UI{
		status: status,
		notice: notice,
		lines:  make(chan string, 16),
		ready:  make(chan struct{}),
	}
}

// Println prints above the prompt, or to stdout when the program is not
// running.
func (u *UI) Println(a ...any) {
	if u.live() {
		u.program.Println(a...)
		return
	}
	fmt.Println(a...)
}

// Printf is Println with formatting. A newline is always added.
func (u *UI) Printf(format string, a ...any) {
	if u.live() {
		u.program.Printf(format, a...)
		return
	}
	fmt.Printf(format+"\n", a...)
}

func (u *UI) live() bool { return u.program != nil && !u.stopped.Load() }

// InputChan delivers every non-blank line the user submits.
func (u *UI) InputChan() <-chan string { return u.lines }

func (u *UI) indented(style lipgloss.Style, text string) {
	u.Println(style.Render("  " + text))
}

// PrintChat prints a conversational line.
func (u *UI) PrintChat(text string) { u.indented(chatStyle, text) }

// PrintHeading prints a view title such as "Saved" or "Dessert".
func (u *UI) PrintHeading(text string) { u.indented(headingStyle, text) }

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) { u.indented(dimStyle, text) }

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) { u.indented(errorStyle, text) }

// PrintText prints body text wrapped to the reading width.
func (u *UI) PrintText(text string) {
	for _, l := range Wrap(text, textWidth) {
		u.indented(bodyStyle, l)
	}
}

// PrintItem prints one numbered list entry with optional dimmed metadata.
func (u *UI) PrintItem(n int, text, meta string) {
	line := bodyStyle.Render(fmt.Sprintf("  %2d. %s", n, text))
	if meta != "" {
		line += dimStyle.Render("  " + meta)
	}
	u.Println(line)
}

// PrintUserInput copies a submitted line into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render(strings.TrimSuffix(prompt, " ")) + " " + echoStyle.Render(text))
}

// WaitReady blocks until the event loop is running.
func (u *UI) WaitReady() { <-u.ready }

// Quit stops the event loop; Run then returns.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// Run starts the event loop and blocks until it stops.
func (u *UI) Run() error {
	in := textinput.New()
	// Keep the prompt unstyled text; textinput measures it byte by byte.
	in.Prompt = prompt
	in.PromptStyle = promptStyle
	in.TextStyle = echoStyle
	in.Cursor.Style = fg(slate)
	in.CharLimit = 500
	in.Width = 60
	in.Focus()

	u.program = tea.NewProgram(model{
		status: u.status,
		notice: u.notice,
		input:  in,
		lines:  u.lines,
		ready:  u.ready,
		echo:   u.PrintUserInput,
	})
	_, err := u.program.Run()
	u.stopped.Store(true)
	return err
}

// model is the Bubble Tea model behind UI.
type model struct {
	status StatusSource
	notice NoticeFunc
	input  textinput.Model
	lines  chan<- string
	ready  chan struct{}
	echo   func(string)
	bar    barInfo
	width  int
}

// barInfo is one poll of the status bar's inputs.
type barInfo struct {
	crumb        string
	status       domain.ViewStatus
	notice       string
	noticeUrgent bool
}

type pollMsg struct{}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollEvery, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m model) Init() tea.Cmd {
	ready := m.ready
	return tea.Batch(textinput.Blink, schedulePoll(), func() tea.Msg {
		close(ready)
		return nil
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.lines <- BackCommand
			return m, nil
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			m.lines <- line
			// Println from inside Update would deadlock; do it from a Cmd.
			echo := m.echo
			return m, func() tea.Msg {
				echo(line)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case pollMsg:
		m.bar = poll(m.status, m.notice)
		return m, tea.Batch(schedulePoll(), tea.SetWindowTitle("RecipeMate - "+m.bar.crumb))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	if m.bar.crumb != "" {
		b.WriteString(renderBar(m.bar, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func poll(status StatusSource, notice NoticeFunc) barInfo {
	var b barInfo
	if status != nil {
		b.crumb = status.Breadcrumb()
		b.status = status.ActiveStatus()
	}
	if notice != nil {
		if text, urgent, ok := notice(); ok {
			b.notice, b.noticeUrgent = text, urgent
		}
	}
	return b
}

func renderBar(info barInfo, width int) string {
	parts := []string{crumbStyle.Render(info.crumb)}

	switch info.status {
	case domain.StatusLoading:
		parts = append(parts, loadingStyle.Render("loading..."))
	case domain.StatusError:
		parts = append(parts, errorStyle.Render("error"))
	case domain.StatusSuccess:
		parts = append(parts, okStyle.Render("ready"))
	}

	if info.notice != "" {
		style := okStyle
		if info.noticeUrgent {
			style = errorStyle
		}
		parts = append(parts, style.Render(info.notice))
	}

	if width <= 0 {
		width = 80
	}
	sep := sepStyle.Render(" | ")
	return barStyle.Width(width).Render(" " + strings.Join(parts, sep) + " ")
}

// Wrap breaks text into lines of at most width runes on word boundaries.
// Words longer than width get a line of their own.
func Wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
