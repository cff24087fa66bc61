// Package profilecache remembers the last known profile of post authors so
// that later posts lacking author details can be completed.
package profilecache

import (
	"context"
	"sync"
	"time"

	"socialfeed/internal/model"
)

// Cache stores author profiles keyed by user id.
type Cache interface {
	Profile(ctx context.Context, userID string) (model.Profile, bool, error)
	SaveProfile(ctx context.Context, p model.Profile) error
}

// Memory is an in-process Cache. It is safe for concurrent use and is never
// evicted.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]model.Profile)}
}

// Profile returns the cached profile of userID.
func (m *Memory) Profile(_ context.Context, userID string) (model.Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	return p, ok, nil
}

// SaveProfile merges p into the cached profile of p.UserID.
func (m *Memory) SaveProfile(_ context.Context, p model.Profile) error {
	if p.UserID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = Merge(m.profiles[p.UserID], p)
	return nil
}

// Len returns the number of cached profiles.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

// Merge overlays the non-empty fields of p onto old.
func Merge(old, p model.Profile) model.Profile {
	out := old
	out.UserID = p.UserID
	if p.Name != "" {
		out.Name = p.Name
	}
	if p.DisplayName != "" {
		out.DisplayName = p.DisplayName
	}
	if p.AvatarURL != nil {
		out.AvatarURL = p.AvatarURL
	}
	if p.AvatarColor != "" {
		out.AvatarColor = p.AvatarColor
	}
	if p.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = p.UpdatedAt
	}
	return out
}

// FromPost extracts what a post tells about its author. It reports false
// when the post has no author id or only the placeholder name. Fields the
// normalizer filled in by fallback are left empty.
func FromPost(p model.Post, now time.Time) (model.Profile, bool) {
	if p.AuthorID == nil || *p.AuthorID == "" || p.AuthorName == model.LikeNameFallback {
		return model.Profile{}, false
	}
	prof := model.Profile{
		UserID:    *p.AuthorID,
		Name:      p.AuthorName,
		AvatarURL: p.AuthorAvatarURL,
		UpdatedAt: now,
	}
	if p.DisplayName != p.AuthorName {
		prof.DisplayName = p.DisplayName
	}
	if p.AvatarColor != model.DefaultAvatarColor {
		prof.AvatarColor = p.AvatarColor
	}
	return prof, true
}

// Fill completes the author fields of p that the payload left out.
func Fill(p *model.Post, prof model.Profile) {
	if p.AuthorAvatarURL == nil && prof.AvatarURL != nil {
		u := *prof.AvatarURL
		p.AuthorAvatarURL = &u
	}
	if p.AuthorName == model.LikeNameFallback && prof.Name != "" {
		p.AuthorName = prof.Name
		p.DisplayName = prof.Name
	}
	if p.DisplayName == p.AuthorName && p.AuthorName == prof.Name && prof.DisplayName != "" {
		p.DisplayName = prof.DisplayName
	}
	if p.AvatarColor == model.DefaultAvatarColor && prof.AvatarColor != "" {
		p.AvatarColor = prof.AvatarColor
	}
}

// Apply completes posts from cache and then remembers their authors. Cache
// errors abort the pass; posts already completed keep their changes.
func Apply(ctx context.Context, c Cache, posts []*model.Post, now time.Time) error {
	for _, p := range posts {
		if p.AuthorID == nil || *p.AuthorID == "" {
			continue
		}
		cached, ok, err := c.Profile(ctx, *p.AuthorID)
		if err != nil {
			return err
		}
		if ok {
			Fill(p, cached)
		}
		if prof, ok := FromPost(*p, now); ok {
			if err := c.SaveProfile(ctx, prof); err != nil {
				return err
			}
		}
	}
	return nil
}
