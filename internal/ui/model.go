// Package ui is the bubbletea front-end of bookingctl: the unread inbox on
// top, the paged bookings list below.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookingdesk/internal/inbox"
	"bookingdesk/internal/model"
	"bookingdesk/internal/paging"
)

type Inbox interface {
	Snapshot() inbox.Snapshot
	OnChange(fn func(inbox.Snapshot))
	MarkRead(id string)
	MarkAllRead(ctx context.Context) error
}

type Bookings interface {
	State() paging.State[model.Booking]
	OnChange(fn func(paging.State[model.Booking]))
	Next(ctx context.Context)
	Prev(ctx context.Context)
	Refetch(ctx context.Context)
}

type pane int

const (
	paneInbox pane = iota
	paneBookings
)

type (
	inboxMsg    inbox.Snapshot
	bookingsMsg paging.State[model.Booking]
	markAllMsg  struct{ err error }
)

type Model struct {
	ctx       context.Context
	inbox     Inbox
	bookings  Bookings
	principal model.Principal
	logout    func()

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	focus         pane
	cursor        int
	inboxState    inbox.Snapshot
	bookingsState paging.State[model.Booking]
	status        string
	width         int
}

func New(ctx context.Context, ib Inbox, bookings Bookings, principal model.Principal, logout func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:           ctx,
		inbox:         ib,
		bookings:      bookings,
		principal:     principal,
		logout:        logout,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		spinner:       sp,
		inboxState:    ib.Snapshot(),
		bookingsState: bookings.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case inboxMsg:
		m.inboxState = inbox.Snapshot(msg)
		m.clampCursor()
		return m, nil

	case bookingsMsg:
		m.bookingsState = paging.State[model.Booking](msg)
		return m, nil

	case markAllMsg:
		if msg.err != nil {
			m.status = "some notifications could not be marked on the server"
		} else {
			m.status = "all notifications marked read"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == paneInbox {
			m.focus = paneBookings
		} else {
			m.focus = paneInbox
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus == paneInbox {
			m.cursor++
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Up):
		if m.focus == paneInbox && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.MarkRead):
		if m.focus == paneInbox && m.cursor < len(m.inboxState.Items) {
			m.inbox.MarkRead(m.inboxState.Items[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.MarkAllRead):
		m.status = "marking all read…"
		return m, m.markAll()
	case key.Matches(msg, m.keys.NextPage):
		return m, m.pageCmd(m.bookings.Next)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.pageCmd(m.bookings.Prev)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.pageCmd(m.bookings.Refetch)
	case key.Matches(msg, m.keys.Logout):
		if m.logout != nil {
			m.logout()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) markAll() tea.Cmd {
	ib, ctx := m.inbox, m.ctx
	return func() tea.Msg {
		return markAllMsg{err: ib.MarkAllRead(ctx)}
	}
}

// pageCmd runs a pager move off the update loop. The resulting state
// arrives through the pager's change listener.
func (m Model) pageCmd(move func(context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		move(ctx)
		return nil
	}
}

func (m *Model) clampCursor() {
	if n := len(m.inboxState.Items); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("bookingdesk · %s (%s)", displayName(m.principal), m.principal.Role)) +
		" " + badgeStyle.Render(fmt.Sprintf("%d unread", m.inboxState.Unread))

	sections := []string{
		header,
		m.stylePane(paneInbox).Render(m.inboxView()),
		m.stylePane(paneBookings).Render(m.bookingsView()),
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) stylePane(p pane) lipgloss.Style {
	style := paneStyle
	if m.focus == p {
		style = focusedPaneStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style
}

func (m Model) inboxView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString("\n")
	if len(m.inboxState.Items) == 0 {
		b.WriteString(readStyle.Render("nothing unread"))
		return b.String()
	}
	for i, n := range m.inboxState.Items {
		line := fmt.Sprintf("%s  %s", n.CreatedAt.Local().Format("Jan 02 15:04"), n.Title)
		if n.Message != "" {
			line += " · " + n.Message
		}
		switch {
		case m.focus == paneInbox && i == m.cursor:
			line = selectedStyle.Render("› " + line)
		case n.IsRead:
			line = readStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.inboxState.ServerUnread != m.inboxState.Unread && m.inboxState.Loaded {
		b.WriteString(readStyle.Render(fmt.Sprintf("server reports %d unread", m.inboxState.ServerUnread)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) bookingsView() string {
	st := m.bookingsState
	var b strings.Builder
	title := fmt.Sprintf("Bookings · page %d/%d", st.CurrentPage, max(st.TotalPages, 1))
	if st.Loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case st.Err != "":
		b.WriteString(errorStyle.Render("error: " + st.Err))
	case len(st.Items) == 0 && !st.Loading:
		b.WriteString(readStyle.Render("no bookings"))
	default:
		for _, bk := range st.Items {
			fmt.Fprintf(&b, "%-10s %-24s %s  %.2f\n",
				bk.Status, bk.ServiceName, bk.ScheduledAt.Local().Format("Jan 02 15:04"), bk.Price)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayName(p model.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
