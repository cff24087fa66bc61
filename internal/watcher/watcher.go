// Package watcher polls the home feed and forwards new items to a chat.
package watcher

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"socialfeed/internal/filter"
	"socialfeed/internal/model"
	"socialfeed/internal/notify"
)

// ScopeHome is the seen-items scope used for home feed items.
const ScopeHome = "home"

// DefaultKinds are the item kinds forwarded when Options.Kinds is empty.
var DefaultKinds = []model.Kind{model.KindOfficial, model.KindSponsored, model.KindEventNews}

// Feed fetches pages of the home feed.
type Feed interface {
	HomeFeed(ctx context.Context, limit, offset int) (*model.Page, error)
}

// SeenStore records which items were already forwarded.
type SeenStore interface {
	IsSeen(ctx context.Context, scope, itemID string) (bool, error)
	MarkSeen(ctx context.Context, scope, itemID string) error
}

type pruner interface {
	PruneSeen(ctx context.Context, before time.Time) (int64, error)
}

// Options configure a Watcher.
type Options struct {
	ChatID    int64
	Interval  time.Duration
	PageLimit int
	Kinds     []model.Kind
	Rules     []filter.Rule
	// Retention, when positive, drops seen markers older than this after
	// each check.
	Retention time.Duration
}

// Watcher periodically checks the home feed and sends notifications.
type Watcher struct {
	feed   Feed
	store  SeenStore
	sender notify.Sender
	opts   Options
	log    *slog.Logger
	pause  time.Duration
}

// New creates a Watcher. Zero options fall back to a 5 minute interval,
// the default page size and DefaultKinds.
func New(feed Feed, store SeenStore, sender notify.Sender, opts Options, log *slog.Logger) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = model.DefaultPageLimit
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = DefaultKinds
	}
	return &Watcher{
		feed:   feed,
		store:  store,
		sender: sender,
		opts:   opts,
		log:    log,
		// Telegram allows roughly 20 messages per second.
		pause: 50 * time.Millisecond,
	}
}

// Run starts the watch loop, blocking until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.check(ctx)

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil {
		w.log.Error("check home feed", "error", err)
	}
	w.prune(ctx)
}

// Check polls the first page of the home feed once and forwards unseen
// items, oldest first. It returns the number of messages sent.
func (w *Watcher) Check(ctx context.Context) (int, error) {
	page, err := w.feed.HomeFeed(ctx, w.opts.PageLimit, 0)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, it := range slices.Backward(page.Items) {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if !w.wanted(it) {
			continue
		}

		key := string(it.Kind) + ":" + it.ID()
		seen, err := w.store.IsSeen(ctx, ScopeHome, key)
		if err != nil {
			w.log.Error("check seen", "item", key, "error", err)
			continue
		}
		if seen {
			continue
		}

		if err := w.sender.SendMessage(w.opts.ChatID, notify.FormatItem(it)); err != nil {
			w.log.Error("send item", "item", key, "error", err)
			continue
		}
		sent++

		if err := w.store.MarkSeen(ctx, ScopeHome, key); err != nil {
			w.log.Error("mark seen", "item", key, "error", err)
		}

		if !w.wait(ctx) {
			return sent, ctx.Err()
		}
	}

	if sent > 0 {
		w.log.Info("sent notifications", "chat_id", w.opts.ChatID, "count", sent)
	}
	return sent, nil
}

func (w *Watcher) wanted(it model.Item) bool {
	if !slices.Contains(w.opts.Kinds, it.Kind) {
		return false
	}
	return filter.Match(filter.TextOf(it), w.opts.Rules)
}

func (w *Watcher) wait(ctx context.Context) bool {
	if w.pause <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(w.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *Watcher) prune(ctx context.Context) {
	p, ok := w.store.(pruner)
	if !ok || w.opts.Retention <= 0 {
		return
	}
	n, err := p.PruneSeen(ctx, time.Now().Add(-w.opts.Retention))
	if err != nil {
		w.log.Error("prune seen items", "error", err)
		return
	}
	if n > 0 {
		w.log.Debug("pruned seen items", "count", n)
	}
}
