package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"bookingdesk/internal/app"
	"bookingdesk/internal/inbox"
	"bookingdesk/internal/model"
	"bookingdesk/internal/paging"
)

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, client *app.Client) error {
	principal, err := client.Session().RequirePrincipal()
	if err != nil {
		return err
	}
	m := New(ctx, client.Inbox(), client.Bookings(), principal, client.Logout)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	client.Inbox().OnChange(func(s inbox.Snapshot) { p.Send(inboxMsg(s)) })
	client.Bookings().OnChange(func(s paging.State[model.Booking]) { p.Send(bookingsMsg(s)) })

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
