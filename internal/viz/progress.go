package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ItemStarted marks item Index as running.
type ItemStarted struct {
	Index int
	Label string
}

// ItemDone records the result of item Index.
type ItemDone struct {
	Index  int
	Label  string
	OK     bool
	Detail string
}

// Finished ends the live view.
type Finished struct{}

type tickMsg time.Time

type item struct {
	label   string
	running bool
	done    bool
	ok      bool
	detail  string
}

// Progress is a bubbletea model that follows a fixed number of syntheses.
// Quitting early with q or ctrl+c calls the abort function.
type Progress struct {
	title   string
	items   []item
	done    int
	start   time.Time
	elapsed time.Duration
	abort   func()
	quit    bool
	// Rows caps the number of item lines shown; the newest are kept.
	Rows int
}

func NewProgress(title string, total int, abort func()) Progress {
	return Progress{
		title: title,
		items: make([]item, total),
		start: time.Now(),
		abort: abort,
		Rows:  12,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Progress) Init() tea.Cmd {
	return tick()
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.abort != nil {
				m.abort()
			}
			m.quit = true
			return m, tea.Quit
		}
	case ItemStarted:
		if it := m.at(msg.Index); it != nil {
			it.label, it.running = msg.Label, true
		}
	case ItemDone:
		if it := m.at(msg.Index); it != nil {
			if !it.done {
				m.done++
			}
			*it = item{label: msg.Label, done: true, ok: msg.OK, detail: msg.Detail}
		}
	case Finished:
		m.quit = true
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	case tickMsg:
		m.elapsed = time.Since(m.start)
		return m, tick()
	}
	return m, nil
}

func (m *Progress) at(i int) *item {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return &m.items[i]
}

// Done reports how many items have finished.
func (m Progress) Done() int { return m.done }

func (m Progress) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(m.title))
	b.WriteString(Subtle.Render(fmt.Sprintf("  %d/%d  %s", m.done, len(m.items), m.elapsed.Round(100*time.Millisecond))))
	b.WriteString("\n")

	feasible := make([]bool, 0, len(m.items))
	lines := make([]string, 0, len(m.items))
	for _, it := range m.items {
		switch {
		case it.done:
			feasible = append(feasible, it.ok)
			lines = append(lines, fmt.Sprintf("%s %s %s", Status(it.ok, mark(it.ok)), it.label, Subtle.Render(it.detail)))
		case it.running:
			lines = append(lines, fmt.Sprintf("%s %s", MetricValue.Render("~"), it.label))
		}
	}
	if m.Rows > 0 && len(lines) > m.Rows {
		lines = lines[len(lines)-m.Rows:]
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if len(feasible) > 0 {
		b.WriteString(Sparkline(feasible))
		b.WriteString("\n")
	}
	if !m.quit {
		b.WriteString(Subtle.Render("q to stop"))
		b.WriteString("\n")
	}
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return "ok"
	}
	return "x"
}
