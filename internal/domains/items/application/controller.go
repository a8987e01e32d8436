package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
)

var (
	// ErrClosed is returned once Close has stopped the controller.
	ErrClosed = errors.New("item controller closed")
	// ErrUnknownItem means the id is not part of the last fetched list.
	ErrUnknownItem = errors.New("item is not in the current list")
)

// StatusLevel grades the outcome shown to the user.
type StatusLevel int

const (
	StatusNone StatusLevel = iota
	StatusInfo
	StatusWarning
	StatusError
)

func (l StatusLevel) String() string {
	switch l {
	case StatusInfo:
		return "info"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

// Status is the last user-visible outcome recorded by the controller.
type Status struct {
	Level   StatusLevel
	Message string
	Err     error
}

type syncState struct {
	items  []domain.Item
	drafts *Drafts
	status Status
	// listSeq is the sequence number of the list response in items.
	listSeq uint64
}

// replaceItems installs a list response unless a later one is already shown.
func (s *syncState) replaceItems(seq uint64, items []domain.Item) bool {
	if seq < s.listSeq {
		return false
	}
	s.items = slices.Clone(items)
	s.listSeq = seq
	return true
}

// Controller owns the item list and both drafts and drives every mutation
// through the same protocol: call the store, then refresh the whole list and
// reset the originating draft on success, or keep everything and report the
// error on failure.
//
// All state lives on a single goroutine. Store calls run on the caller's
// goroutine and hand their results back to it, so concurrent commits may
// interleave. Each list response is numbered as soon as it returns and an
// older response never replaces a newer one.
type Controller struct {
	repo      ports.Repository
	logger    *slog.Logger
	calls     chan func(*syncState)
	quit      chan struct{}
	closeOnce sync.Once
	listSeq   atomic.Uint64
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController starts the state goroutine. Call Close to stop it.
func NewController(repo ports.Repository, opts ...Option) *Controller {
	c := &Controller{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		calls:  make(chan func(*syncState)),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	go c.loop(&syncState{drafts: NewDrafts()})
	return c
}

// Close stops the state goroutine. In-flight store calls still complete but
// their results are dropped.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
}

func (c *Controller) loop(s *syncState) {
	for {
		select {
		case <-c.quit:
			return
		case fn := <-c.calls:
			fn(s)
		}
	}
}

func (c *Controller) closed() bool {
	select {
	case <-c.quit:
		return true
	default:
		return false
	}
}

// exec runs fn on the state goroutine and waits for it.
func (c *Controller) exec(fn func(*syncState)) error {
	if c.closed() {
		return ErrClosed
	}
	done := make(chan struct{})
	call := func(s *syncState) {
		defer close(done)
		fn(s)
	}
	select {
	case c.calls <- call:
		<-done
		return nil
	case <-c.quit:
		return ErrClosed
	}
}

// Items returns a copy of the last fetched list.
func (c *Controller) Items() []domain.Item {
	var items []domain.Item
	_ = c.exec(func(s *syncState) { items = slices.Clone(s.items) })
	return items
}

// NewDraft returns a copy of the new-item draft.
func (c *Controller) NewDraft() domain.Fields {
	var fields domain.Fields
	_ = c.exec(func(s *syncState) { fields = s.drafts.New() })
	return fields
}

// Mode reports whether an item is being edited, with a copy of its draft.
func (c *Controller) Mode() Mode {
	var mode Mode
	_ = c.exec(func(s *syncState) { mode = s.drafts.Mode() })
	return mode
}

// Status returns the outcome of the last operation.
func (c *Controller) Status() Status {
	var status Status
	_ = c.exec(func(s *syncState) { status = s.status })
	return status
}

// Refresh replaces the list with the store's current contents.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, Status{Level: StatusInfo, Message: "items loaded"}, nil)
}

// BeginEdit switches to editing the listed item with the given id.
func (c *Controller) BeginEdit(id string) error {
	var err error
	if execErr := c.exec(func(s *syncState) {
		idx := slices.IndexFunc(s.items, func(item domain.Item) bool { return item.ID == id })
		if idx < 0 {
			err = ErrUnknownItem
			return
		}
		err = s.drafts.BeginEdit(s.items[idx])
	}); execErr != nil {
		return execErr
	}
	return err
}

// CancelEdit leaves edit mode without contacting the store.
func (c *Controller) CancelEdit() error {
	return c.exec(func(s *syncState) { s.drafts.CancelEdit() })
}

// SetNewField updates one field of the new-item draft from raw input.
func (c *Controller) SetNewField(field domain.Field, raw string) error {
	return c.setField(func(d *Drafts) error { return d.SetNewField(field, raw) })
}

// SetEditField updates one field of the edit draft from raw input.
func (c *Controller) SetEditField(field domain.Field, raw string) error {
	return c.setField(func(d *Drafts) error { return d.SetEditField(field, raw) })
}

func (c *Controller) setField(apply func(*Drafts) error) error {
	var err error
	if execErr := c.exec(func(s *syncState) {
		err = apply(s.drafts)
		if err != nil {
			s.status = Status{Level: StatusWarning, Message: "input rejected", Err: err}
		}
	}); execErr != nil {
		return execErr
	}
	return err
}

// Commit saves the edit draft when an item is being edited and creates a new
// item from the new-item draft otherwise.
func (c *Controller) Commit(ctx context.Context) error {
	var mode Mode
	var fields domain.Fields
	if err := c.exec(func(s *syncState) {
		mode = s.drafts.Mode()
		fields = s.drafts.New()
	}); err != nil {
		return err
	}
	if mode.Editing() {
		return c.commitEdit(ctx, mode.ItemID, mode.Draft)
	}
	return c.commitNew(ctx, fields)
}

// CommitNew creates an item from the new-item draft.
func (c *Controller) CommitNew(ctx context.Context) error {
	var fields domain.Fields
	if err := c.exec(func(s *syncState) { fields = s.drafts.New() }); err != nil {
		return err
	}
	return c.commitNew(ctx, fields)
}

// CommitEdit sends the edit draft as a full replacement of its item.
func (c *Controller) CommitEdit(ctx context.Context) error {
	var mode Mode
	if err := c.exec(func(s *syncState) { mode = s.drafts.Mode() }); err != nil {
		return err
	}
	if !mode.Editing() {
		return ErrNotEditing
	}
	return c.commitEdit(ctx, mode.ItemID, mode.Draft)
}

// Delete removes an item. An item that is already gone is not an error.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.closed() {
		return ErrClosed
	}
	err := c.repo.Delete(ctx, id)
	switch {
	case err == nil:
		c.logInfo(ctx, "item deleted", slog.String("item.id", id))
		return c.refresh(ctx, Status{Level: StatusInfo, Message: "item deleted"}, nil)
	case errors.Is(err, ports.ErrNotFound):
		c.logger.LogAttrs(ctx, slog.LevelWarn, "item already gone", slog.String("item.id", id))
		return c.refresh(ctx, Status{Level: StatusWarning, Message: "item was already deleted", Err: err}, nil)
	default:
		return c.fail(ctx, "failed to delete item", err, slog.String("item.id", id))
	}
}

// Adjust asks the store to change an item's quantity by one.
func (c *Controller) Adjust(ctx context.Context, id string, direction domain.Direction) error {
	if c.closed() {
		return ErrClosed
	}
	if err := c.repo.AdjustQuantity(ctx, id, direction); err != nil {
		return c.fail(ctx, "failed to adjust quantity", err,
			slog.String("item.id", id), slog.String("direction", direction.String()))
	}
	c.logInfo(ctx, "quantity adjusted", slog.String("item.id", id), slog.String("direction", direction.String()))
	return c.refresh(ctx, Status{Level: StatusInfo, Message: "quantity adjusted"}, nil)
}

func (c *Controller) commitNew(ctx context.Context, fields domain.Fields) error {
	if c.closed() {
		return ErrClosed
	}
	id, err := c.repo.Create(ctx, fields)
	if err != nil {
		return c.fail(ctx, "failed to create item", err, slog.String("item.name", fields.Name))
	}
	c.logInfo(ctx, "item created", slog.String("item.id", id), slog.String("item.name", fields.Name))
	return c.refresh(ctx, Status{Level: StatusInfo, Message: "item created"}, func(s *syncState) {
		s.drafts.ResetNew()
	})
}

func (c *Controller) commitEdit(ctx context.Context, id string, fields domain.Fields) error {
	if c.closed() {
		return ErrClosed
	}
	if err := c.repo.Update(ctx, id, fields); err != nil {
		return c.fail(ctx, "failed to update item", err, slog.String("item.id", id))
	}
	c.logInfo(ctx, "item updated", slog.String("item.id", id))
	return c.refresh(ctx, Status{Level: StatusInfo, Message: "item updated"}, func(s *syncState) {
		s.drafts.FinishEdit(id, fields)
	})
}

// refresh fetches the list and, on the state goroutine, runs after (the draft
// reset of a successful mutation) and replaces the list wholesale. A failed
// fetch keeps the previous list, and so does a response that lost the race to
// a later one.
func (c *Controller) refresh(ctx context.Context, outcome Status, after func(*syncState)) error {
	if c.closed() {
		return ErrClosed
	}
	items, listErr := c.repo.List(ctx)
	seq := c.listSeq.Add(1)
	if err := c.exec(func(s *syncState) {
		if after != nil {
			after(s)
		}
		if listErr != nil {
			s.status = Status{Level: StatusError, Message: "failed to refresh items", Err: listErr}
			return
		}
		if !s.replaceItems(seq, items) {
			c.logger.LogAttrs(ctx, slog.LevelDebug, "stale item list dropped", slog.Uint64("list.seq", seq))
		}
		s.status = outcome
	}); err != nil {
		return err
	}
	if listErr != nil {
		c.logError(ctx, "failed to refresh items", listErr)
		return listErr
	}
	return nil
}

// fail records a failed store call. Drafts and the list stay as they were.
func (c *Controller) fail(ctx context.Context, msg string, err error, attrs ...slog.Attr) error {
	c.logError(ctx, msg, err, attrs...)
	if execErr := c.exec(func(s *syncState) {
		s.status = Status{Level: StatusError, Message: msg, Err: err}
	}); execErr != nil {
		return errors.Join(err, execErr)
	}
	return err
}

func (c *Controller) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (c *Controller) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
