// Package inbox keeps the unread notification list and the unread counter
// consistent across server snapshots, live pushes and read actions.
//
// Every settled mutation leaves Unread equal to the number of entries whose
// IsRead flag is false. Read flags only move from false to true: an id read
// locally stays read even if a later snapshot still reports it unread.
package inbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"bookingdesk/internal/metrics"
	"bookingdesk/internal/model"
	"bookingdesk/internal/telemetry"
	"bookingdesk/internal/transport"
)

const markAllConcurrency = 8

// API is the part of the REST contract the inbox consumes.
type API interface {
	FetchUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	FetchUnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type Snapshot struct {
	Items  []model.Notification
	Unread int
	// ServerUnread is the count last reported by the API. It can differ
	// from Unread; the list is authoritative.
	ServerUnread int
	Loaded       bool
}

type Inbox struct {
	api       API
	transport transport.Transport
	log       *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	mu           sync.Mutex
	items        []model.Notification
	unread       int
	serverUnread int
	loaded       bool
	readIDs      map[string]struct{}
	pushedAt     map[string]uint64
	gen          uint64
	loadSeq      uint64
	appliedLoad  uint64
	listeners    []func(Snapshot)
}

func New(api API, tr transport.Transport, logger *zap.Logger, m *metrics.Metrics) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inbox{
		api:       api,
		transport: tr,
		log:       logger,
		metrics:   m,
		tracer:    telemetry.Tracer("inbox"),
		items:     []model.Notification{},
		readIDs:   make(map[string]struct{}),
		pushedAt:  make(map[string]uint64),
	}
}

// Start loads the unread snapshot, then attaches to the realtime channel as
// principalID. A failed load is logged and does not stop the connection.
func (i *Inbox) Start(ctx context.Context, principalID, role string) error {
	i.Load(ctx)

	i.transport.Subscribe(i.Push)
	if err := i.transport.Connect(ctx); err != nil {
		return fmt.Errorf("inbox start: %w", err)
	}
	if err := i.transport.Authenticate(ctx, principalID, role); err != nil {
		return fmt.Errorf("inbox start: %w", err)
	}
	return nil
}

func (i *Inbox) Stop() {
	i.transport.Unsubscribe()
}

// Load fetches the unread list and the unread count concurrently. Each half
// is applied only if it succeeded. A load that resolves after newer state
// changes merges into that state instead of replacing it, and a load that
// resolves after a later-started load is discarded.
func (i *Inbox) Load(ctx context.Context) {
	ctx, span := i.tracer.Start(ctx, "inbox.Load")
	defer span.End()

	i.mu.Lock()
	i.loadSeq++
	seq := i.loadSeq
	startGen := i.gen
	i.mu.Unlock()

	var (
		list     []model.Notification
		listErr  error
		count    int
		countErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() { list, listErr = i.api.FetchUnreadNotifications(ctx) })
	wg.Go(func() { count, countErr = i.api.FetchUnreadCount(ctx) })
	wg.Wait()

	if listErr != nil {
		span.RecordError(listErr)
		i.log.Warn("fetch unread notifications failed", zap.Error(listErr))
	}
	if countErr != nil {
		span.RecordError(countErr)
		i.log.Warn("fetch unread count failed", zap.Error(countErr))
	}
	if listErr != nil && countErr != nil {
		span.SetStatus(codes.Error, "load failed")
		return
	}

	i.mu.Lock()
	if seq < i.appliedLoad {
		i.mu.Unlock()
		i.log.Debug("dropping superseded load", zap.Uint64("seq", seq))
		return
	}
	i.appliedLoad = seq
	if listErr == nil {
		i.applySnapshotLocked(list, startGen)
		i.loaded = true
	}
	if countErr == nil {
		i.serverUnread = count
		if listErr == nil && count != i.unread {
			i.log.Info("server unread count differs from list",
				zap.Int("server", count),
				zap.Int("list", i.unread),
			)
		}
	}
	unread := i.unread
	i.mu.Unlock()

	span.SetAttributes(attribute.Int("inbox.unread", unread))
	i.changed()
}

// applySnapshotLocked replaces the list with snapshot, keeping in front any
// entry pushed after startGen that the snapshot does not contain.
func (i *Inbox) applySnapshotLocked(snapshot []model.Notification, startGen uint64) {
	inSnapshot := make(map[string]struct{}, len(snapshot))
	fresh := make([]model.Notification, 0, len(snapshot))
	for _, n := range snapshot {
		if _, dup := inSnapshot[n.ID]; dup {
			continue
		}
		inSnapshot[n.ID] = struct{}{}
		if _, read := i.readIDs[n.ID]; read {
			n.IsRead = true
		}
		fresh = append(fresh, n)
	}

	merged := make([]model.Notification, 0, len(fresh))
	for _, n := range i.items {
		if _, ok := inSnapshot[n.ID]; ok {
			continue
		}
		if i.pushedAt[n.ID] > startGen {
			merged = append(merged, n)
		}
	}
	merged = append(merged, fresh...)

	pushedAt := make(map[string]uint64)
	for _, n := range merged {
		if g, ok := i.pushedAt[n.ID]; ok {
			pushedAt[n.ID] = g
		}
	}

	i.items = merged
	i.pushedAt = pushedAt
	i.unread = countUnread(merged)
	i.gen++
}

// Push prepends n and bumps the counter. Ids already in the list are
// ignored.
func (i *Inbox) Push(n model.Notification) {
	i.mu.Lock()
	if i.indexLocked(n.ID) >= 0 {
		i.mu.Unlock()
		i.log.Debug("duplicate push ignored", zap.String("id", n.ID))
		return
	}
	if _, read := i.readIDs[n.ID]; read {
		n.IsRead = true
	}
	i.items = append([]model.Notification{n}, i.items...)
	if !n.IsRead {
		i.unread++
	}
	i.gen++
	i.pushedAt[n.ID] = i.gen
	i.mu.Unlock()

	i.changed()
}

// MarkRead flips id to read, decrements the counter and fires the transport
// signal without waiting for it. Unknown or already-read ids change nothing.
func (i *Inbox) MarkRead(id string) {
	i.mu.Lock()
	idx := i.indexLocked(id)
	if idx < 0 || i.items[idx].IsRead {
		i.mu.Unlock()
		return
	}
	i.setReadLocked(idx)
	if i.unread > 0 {
		i.unread--
	}
	i.gen++
	i.mu.Unlock()

	i.dispatchMarkRead(id)
	i.changed()
}

// MarkAllRead calls the mark-read endpoint once per unread entry, waits for
// all calls, then marks every batched entry read even if some calls failed.
// The local state can therefore disagree with the server until the next
// load; the joined call errors are returned for logging.
func (i *Inbox) MarkAllRead(ctx context.Context) error {
	ctx, span := i.tracer.Start(ctx, "inbox.MarkAllRead")
	defer span.End()

	i.mu.Lock()
	ids := make([]string, 0, i.unread)
	for _, n := range i.items {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	i.mu.Unlock()

	span.SetAttributes(attribute.Int("inbox.batch", len(ids)))
	if len(ids) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithMaxGoroutines(markAllConcurrency)
	for _, id := range ids {
		p.Go(func() error {
			if err := i.api.MarkNotificationRead(ctx, id); err != nil {
				i.metrics.IncMarkReadFailure()
				i.log.Warn("mark notification read failed", zap.String("id", id), zap.Error(err))
				return err
			}
			return nil
		})
	}
	callErr := p.Wait()

	i.mu.Lock()
	for _, id := range ids {
		if idx := i.indexLocked(id); idx >= 0 {
			i.setReadLocked(idx)
		}
	}
	i.unread = countUnread(i.items)
	i.gen++
	i.mu.Unlock()

	i.changed()

	if callErr != nil {
		span.RecordError(callErr)
		span.SetStatus(codes.Error, "partial mark-all failure")
		return fmt.Errorf("mark all read: %w", callErr)
	}
	return nil
}

func (i *Inbox) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snapshotLocked()
}

// OnChange registers fn to receive a snapshot after every mutation.
func (i *Inbox) OnChange(fn func(Snapshot)) {
	i.mu.Lock()
	i.listeners = append(i.listeners, fn)
	i.mu.Unlock()
}

func (i *Inbox) dispatchMarkRead(id string) {
	i.transport.MarkRead(id)
}

func (i *Inbox) setReadLocked(idx int) {
	i.items[idx].IsRead = true
	i.readIDs[i.items[idx].ID] = struct{}{}
}

func (i *Inbox) indexLocked(id string) int {
	for idx, n := range i.items {
		if n.ID == id {
			return idx
		}
	}
	return -1
}

func (i *Inbox) snapshotLocked() Snapshot {
	return Snapshot{
		Items:        append([]model.Notification{}, i.items...),
		Unread:       i.unread,
		ServerUnread: i.serverUnread,
		Loaded:       i.loaded,
	}
}

func (i *Inbox) changed() {
	i.mu.Lock()
	snap := i.snapshotLocked()
	listeners := append([]func(Snapshot){}, i.listeners...)
	i.mu.Unlock()

	i.metrics.SetUnread(snap.Unread)
	for _, fn := range listeners {
		fn(snap)
	}
}

func countUnread(items []model.Notification) int {
	n := 0
	for _, item := range items {
		if !item.IsRead {
			n++
		}
	}
	return n
}
