package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"socialfeed/internal/model"
	"socialfeed/internal/profilecache"
)

var (
	_ Storage            = (*SQLite)(nil)
	_ profilecache.Cache = (*SQLite)(nil)
)

var ignoreUpdatedAt = cmpopts.IgnoreFields(model.Profile{}, "UpdatedAt")

func ptr[T any](v T) *T { return &v }

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSeenItems(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	seen, err := s.IsSeen(ctx, "home", "o1")
	if err != nil {
		t.Fatalf("is seen: %v", err)
	}
	if seen {
		t.Error("expected not seen initially")
	}

	if err := s.MarkSeen(ctx, "home", "o1"); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	// Marking twice is a no-op.
	if err := s.MarkSeen(ctx, "home", "o1"); err != nil {
		t.Fatalf("mark seen again: %v", err)
	}

	tests := []struct {
		name   string
		scope  string
		itemID string
		want   bool
	}{
		{name: "marked item", scope: "home", itemID: "o1", want: true},
		{name: "other item", scope: "home", itemID: "o2", want: false},
		{name: "other scope", scope: "news", itemID: "o1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.IsSeen(ctx, tt.scope, tt.itemID)
			if err != nil {
				t.Fatalf("is seen: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IsSeen() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPruneSeen(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base.Add(-48 * time.Hour) }
	if err := s.MarkSeen(ctx, "home", "old"); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return base }
	if err := s.MarkSeen(ctx, "home", "new"); err != nil {
		t.Fatal(err)
	}

	n, err := s.PruneSeen(ctx, base.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if diff := cmp.Diff(int64(1), n); diff != "" {
		t.Errorf("pruned count mismatch (-want +got):\n%s", diff)
	}
	if seen, _ := s.IsSeen(ctx, "home", "old"); seen {
		t.Error("old item should be pruned")
	}
	if seen, _ := s.IsSeen(ctx, "home", "new"); !seen {
		t.Error("new item should be kept")
	}
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	if _, ok, err := s.Profile(ctx, "u1"); err != nil || ok {
		t.Fatalf("Profile() on empty db = %v, %v", ok, err)
	}

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	first := model.Profile{
		UserID:      "u1",
		Name:        "mrossi",
		DisplayName: "Mario Rossi",
		AvatarURL:   ptr("https://cdn/a.png"),
		AvatarColor: "#123456",
		UpdatedAt:   t0,
	}
	if err := s.SaveProfile(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Empty fields do not erase what is stored.
	if err := s.SaveProfile(ctx, model.Profile{UserID: "u1", Name: "mario", UpdatedAt: t0.Add(time.Hour)}); err != nil {
		t.Fatalf("save update: %v", err)
	}

	got, ok, err := s.Profile(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Profile() = %v, %v", ok, err)
	}
	want := model.Profile{
		UserID:      "u1",
		Name:        "mario",
		DisplayName: "Mario Rossi",
		AvatarURL:   ptr("https://cdn/a.png"),
		AvatarColor: "#123456",
		UpdatedAt:   t0.Add(time.Hour),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Profile() mismatch (-want +got):\n%s", diff)
	}

	if err := s.SaveProfile(ctx, model.Profile{UserID: "u2", Name: "anna"}); err != nil {
		t.Fatalf("save second: %v", err)
	}
	if err := s.SaveProfile(ctx, model.Profile{}); err != nil {
		t.Fatalf("save without id: %v", err)
	}
	n, err := s.CountProfiles(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if diff := cmp.Diff(2, n); diff != "" {
		t.Errorf("profile count mismatch (-want +got):\n%s", diff)
	}

	second, _, _ := s.Profile(ctx, "u2")
	if diff := cmp.Diff(model.Profile{UserID: "u2", Name: "anna"}, second, ignoreUpdatedAt); diff != "" {
		t.Errorf("second profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfilesAsCache(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	posts := []*model.Post{
		{ID: "p1", AuthorID: ptr("u1"), AuthorName: "mrossi", DisplayName: "Mario Rossi", AvatarColor: model.DefaultAvatarColor},
		{ID: "p2", AuthorID: ptr("u1"), AuthorName: "mrossi", DisplayName: "mrossi", AvatarColor: model.DefaultAvatarColor},
	}
	if err := profilecache.Apply(ctx, s, posts, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff("Mario Rossi", posts[1].DisplayName); diff != "" {
		t.Errorf("display name mismatch (-want +got):\n%s", diff)
	}
}
