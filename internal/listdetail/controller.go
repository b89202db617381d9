package listdetail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/notify"
)

const busyMessage = "Please wait for the current request to finish."

// Controller owns the collection, the detail session and the deletion
// session of one entity kind.
//
// Methods block on the backend and are safe to call from several goroutines.
// Every backend failure is reported through the notifier exactly once and
// also returned as a *Failure.
//
// Toggle and ConfirmDelete never patch the collection: on success they
// re-fetch it, so the list always shows what the server holds.
type Controller[S, D any] struct {
	res    Resource[S, D]
	remote Remote[S, D]
	notes  notify.Notifier
	logger *zap.Logger

	mu       sync.Mutex
	store    *store[S]
	detail   detailSession[D]
	deletion deletionSession[S]
	// fetches counts outstanding list and detail calls; LoadingFlag is
	// fetches > 0.
	fetches  int
	listGen  uint64
	mutating bool
}

func New[S, D any](res Resource[S, D], remote Remote[S, D], notes notify.Notifier, logger *zap.Logger) *Controller[S, D] {
	if notes == nil {
		notes = notify.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[S, D]{
		res:    res,
		remote: remote,
		notes:  notes,
		logger: logger.Named(res.Name),
		store:  newStore(res.ID),
	}
}

// Loading reports whether a list or detail fetch is outstanding.
func (c *Controller[S, D]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches > 0
}

// Busy reports whether mutating operations are currently refused.
func (c *Controller[S, D]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyLocked()
}

func (c *Controller[S, D]) busyLocked() bool {
	return c.fetches > 0 || c.mutating
}

// Items returns a copy of the collection.
func (c *Controller[S, D]) Items() []S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.snapshot()
}

// Find looks a summary up by identifier.
func (c *Controller[S, D]) Find(id string) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.find(id)
}

// Load fetches the collection and replaces the local copy with it.
func (c *Controller[S, D]) Load(ctx context.Context) ([]S, error) {
	c.mu.Lock()
	c.fetches++
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()
	defer c.settle()

	env, err := c.remote.List(ctx)

	if err != nil || !env.Success {
		c.mu.Lock()
		stale := gen != c.listGen
		c.mu.Unlock()
		if stale {
			return nil, ErrSuperseded
		}
		if err != nil {
			return nil, c.transportFailure("load", err)
		}
		return nil, c.logicalFailure("load", env.Message)
	}

	c.mu.Lock()
	if gen != c.listGen {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded list response")
		return nil, ErrSuperseded
	}
	dropped := c.store.replace(env.Data)
	items := c.store.snapshot()
	c.mu.Unlock()

	if len(dropped) > 0 {
		c.logger.Warn("dropped duplicate records from list response", zap.Strings("ids", dropped))
	}
	c.logger.Debug("collection loaded", zap.Int("count", len(items)))
	return items, nil
}

// Open fetches the full record for id and shows it in the detail view with
// every gallery cursor at 0. On failure the view stays closed.
func (c *Controller[S, D]) Open(ctx context.Context, id string) (D, error) {
	var zero D

	c.mu.Lock()
	c.fetches++
	gen := c.detail.begin(id)
	c.mu.Unlock()
	defer c.settle()

	env, err := c.remote.Get(ctx, id)

	if err != nil || !env.Success {
		c.mu.Lock()
		current := c.detail.fail(gen)
		c.mu.Unlock()
		if !current {
			return zero, ErrSuperseded
		}
		if err != nil {
			return zero, c.transportFailure("open", err)
		}
		return zero, c.logicalFailure("open", env.Message)
	}

	c.mu.Lock()
	current := c.detail.finish(gen, env.Data, c.res.galleries(env.Data))
	c.mu.Unlock()
	if !current {
		c.logger.Debug("discarding superseded detail response", zap.String("id", id))
		return zero, ErrSuperseded
	}
	return env.Data, nil
}

// CloseDetail hides the detail view and forgets the record. Closing a closed
// view is a no-op.
func (c *Controller[S, D]) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail.close()
}

// SelectImage moves one gallery's cursor. Indices outside the gallery are a
// caller error and leave the cursor where it was.
func (c *Controller[S, D]) SelectImage(gallery string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail.selectImage(gallery, index)
}

// NextImage advances a gallery cursor, wrapping to the first image.
func (c *Controller[S, D]) NextImage(gallery string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail.step(gallery, 1)
}

// PrevImage moves a gallery cursor back, wrapping to the last image.
func (c *Controller[S, D]) PrevImage(gallery string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail.step(gallery, -1)
}

// Toggle flips the active flag of a listed record on the server and then
// re-fetches the collection.
func (c *Controller[S, D]) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		c.notes.Notify(notify.LevelWarning, busyMessage)
		return ErrBusy
	}
	current, ok := c.store.find(id)
	if !ok {
		c.mu.Unlock()
		c.logger.Error("toggle requested for record not in list", zap.String("id", id))
		c.notes.Notify(notify.LevelError, fmt.Sprintf("%s %s is not in the list.", c.res.Noun, id))
		return fmt.Errorf("toggle %s: %w", id, ErrUnknownEntity)
	}
	c.mutating = true
	c.mu.Unlock()
	defer c.endMutation()

	next := !c.res.Status(current)
	env, err := c.remote.SetStatus(ctx, id, next)
	if err != nil {
		return c.transportFailure("toggle", err)
	}
	if !env.Success {
		return c.logicalFailure("toggle", env.Message)
	}

	verb := "deactivated"
	if next {
		verb = "activated"
	}
	c.notes.Notify(notify.LevelSuccess, fmt.Sprintf("%s %s successfully!", c.res.Noun, verb))
	c.logger.Info("status changed", zap.String("id", id), zap.Bool("status", next))

	c.refresh(ctx)
	return nil
}

// RequestDelete opens the confirmation dialog for item. Nothing is sent to
// the server.
func (c *Controller[S, D]) RequestDelete(item S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletion.request(item, c.res.ID(item))
}

// RequestDeleteID is RequestDelete for a listed identifier.
func (c *Controller[S, D]) RequestDeleteID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.store.find(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrUnknownEntity)
	}
	c.deletion.request(item, id)
	return nil
}

// CancelDelete closes the confirmation dialog. No server call.
func (c *Controller[S, D]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletion.cancel()
}

// ConfirmDelete deletes the pending record. On success the dialog closes and
// the collection is re-fetched. On any failure the dialog stays open with the
// same candidate, so the operator can retry or cancel.
func (c *Controller[S, D]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if !c.deletion.open() {
		c.mu.Unlock()
		return ErrNoPendingDeletion
	}
	if c.busyLocked() {
		c.mu.Unlock()
		c.notes.Notify(notify.LevelWarning, busyMessage)
		return ErrBusy
	}
	id := c.deletion.id
	gen := c.deletion.gen
	c.mutating = true
	c.mu.Unlock()
	defer c.endMutation()

	env, err := c.remote.Delete(ctx, id)
	if err != nil {
		return c.transportFailure("delete", err)
	}
	if !env.Success {
		// The candidate is kept: the dialog stays up for a retry or cancel.
		return c.logicalFailure("delete", env.Message)
	}

	c.mu.Lock()
	c.deletion.clearIf(gen)
	if c.detail.id == id {
		c.detail.close()
	}
	c.mu.Unlock()

	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("%s deleted successfully!", c.res.Noun)
	}
	c.notes.Notify(notify.LevelSuccess, msg)
	c.logger.Info("record deleted", zap.String("id", id))

	c.refresh(ctx)
	return nil
}

// refresh re-fetches after a mutation. A failed refresh has already been
// reported and does not undo the mutation.
func (c *Controller[S, D]) refresh(ctx context.Context) {
	if _, err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Warn("refresh after mutation failed", zap.Error(err))
	}
}

func (c *Controller[S, D]) settle() {
	c.mu.Lock()
	c.fetches--
	c.mu.Unlock()
}

func (c *Controller[S, D]) endMutation() {
	c.mu.Lock()
	c.mutating = false
	c.mu.Unlock()
}

func (c *Controller[S, D]) logicalFailure(op, message string) error {
	if message == "" {
		message = fmt.Sprintf("Could not %s %s.", op, c.res.Name)
	}
	c.logger.Warn("backend refused request", zap.String("op", op), zap.String("message", message))
	c.notes.Notify(notify.LevelWarning, message)
	return &Failure{Op: op, Kind: FailureLogical, Message: message}
}

func (c *Controller[S, D]) transportFailure(op string, err error) error {
	message := gateway.UserMessage(err)
	c.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	c.notes.Notify(notify.LevelError, message)
	return &Failure{Op: op, Kind: FailureTransport, Message: message, Err: err}
}
