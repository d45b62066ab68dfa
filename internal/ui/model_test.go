package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"bookingdesk/internal/inbox"
	"bookingdesk/internal/model"
	"bookingdesk/internal/paging"
)

type fakeInbox struct {
	mu       sync.Mutex
	snap     inbox.Snapshot
	marked   []string
	markAll  error
	markAlls int
}

func (f *fakeInbox) Snapshot() inbox.Snapshot      { return f.snap }
func (f *fakeInbox) OnChange(func(inbox.Snapshot)) {}
func (f *fakeInbox) MarkRead(id string)            { f.mu.Lock(); f.marked = append(f.marked, id); f.mu.Unlock() }
func (f *fakeInbox) MarkAllRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markAlls++
	return f.markAll
}

type fakeBookings struct {
	state paging.State[model.Booking]
	moves []string
}

func (f *fakeBookings) State() paging.State[model.Booking]         { return f.state }
func (f *fakeBookings) OnChange(func(paging.State[model.Booking])) {}
func (f *fakeBookings) Next(context.Context)                       { f.moves = append(f.moves, "next") }
func (f *fakeBookings) Prev(context.Context)                       { f.moves = append(f.moves, "prev") }
func (f *fakeBookings) Refetch(context.Context)                    { f.moves = append(f.moves, "refetch") }

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(ib *fakeInbox, bk *fakeBookings, logout func()) Model {
	return New(context.Background(), ib, bk, model.Principal{ID: "u1", Name: "Ana", Role: "user"}, logout)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_MarkReadUsesCursor(t *testing.T) {
	ib := &fakeInbox{snap: inbox.Snapshot{
		Items: []model.Notification{
			{ID: "n1", Title: "first", CreatedAt: time.Now()},
			{ID: "n2", Title: "second", CreatedAt: time.Now()},
		},
		Unread: 2,
		Loaded: true,
	}}
	m := newTestModel(ib, &fakeBookings{}, nil)

	m, _ = update(t, m, runeKey("j"))
	m, _ = update(t, m, runeKey("j"))
	require.Equal(t, 1, m.cursor)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"n2"}, ib.marked)

	m, _ = update(t, m, runeKey("k"))
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"n2", "n1"}, ib.marked)
}

func TestModel_InboxUpdateClampsCursor(t *testing.T) {
	ib := &fakeInbox{snap: inbox.Snapshot{Items: []model.Notification{{ID: "a"}, {ID: "b"}}, Unread: 2}}
	m := newTestModel(ib, &fakeBookings{}, nil)
	m.cursor = 1

	m, _ = update(t, m, inboxMsg(inbox.Snapshot{Items: []model.Notification{{ID: "a"}}, Unread: 1}))
	require.Equal(t, 0, m.cursor)
	require.Contains(t, m.View(), "1 unread")

	m, _ = update(t, m, inboxMsg(inbox.Snapshot{}))
	require.Equal(t, 0, m.cursor)
	require.Contains(t, m.View(), "nothing unread")
}

func TestModel_MarkAllReportsResult(t *testing.T) {
	ib := &fakeInbox{markAll: errors.New("boom")}
	m := newTestModel(ib, &fakeBookings{}, nil)

	m, cmd := update(t, m, runeKey("a"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, 1, ib.markAlls)

	m, _ = update(t, m, msg)
	require.Contains(t, m.status, "could not be marked")

	ib.markAll = nil
	m, cmd = update(t, m, runeKey("a"))
	m, _ = update(t, m, cmd())
	require.Equal(t, "all notifications marked read", m.status)
}

func TestModel_PagingKeys(t *testing.T) {
	bk := &fakeBookings{}
	m := newTestModel(&fakeInbox{}, bk, nil)

	for _, k := range []string{"n", "p", "r"} {
		var cmd tea.Cmd
		m, cmd = update(t, m, runeKey(k))
		require.NotNil(t, cmd)
		require.Nil(t, cmd())
	}
	require.Equal(t, []string{"next", "prev", "refetch"}, bk.moves)
}

func TestModel_BookingsView(t *testing.T) {
	m := newTestModel(&fakeInbox{}, &fakeBookings{}, nil)

	m, _ = update(t, m, bookingsMsg(paging.State[model.Booking]{
		Items: []model.Booking{{
			ServiceName: "Plumbing",
			Status:      model.BookingStatusPending,
			ScheduledAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Price:       42,
		}},
		CurrentPage: 2,
		TotalPages:  3,
		Loaded:      true,
	}))
	view := m.View()
	require.Contains(t, view, "page 2/3")
	require.Contains(t, view, "Plumbing")

	m, _ = update(t, m, bookingsMsg(paging.State[model.Booking]{CurrentPage: 2, TotalPages: 3, Err: "unavailable"}))
	require.Contains(t, m.View(), "error: unavailable")
}

func TestModel_LogoutQuits(t *testing.T) {
	called := false
	m := newTestModel(&fakeInbox{}, &fakeBookings{}, func() { called = true })

	_, cmd := update(t, m, runeKey("L"))
	require.True(t, called)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
