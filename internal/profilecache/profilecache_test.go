package profilecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"socialfeed/internal/model"
)

func ptr[T any](v T) *T { return &v }

var (
	t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func TestMerge(t *testing.T) {
	old := model.Profile{
		UserID:      "u1",
		Name:        "Mario",
		DisplayName: "Mario Rossi",
		AvatarURL:   ptr("https://cdn/a.png"),
		AvatarColor: "#000000",
		UpdatedAt:   t1,
	}
	got := Merge(old, model.Profile{UserID: "u1", Name: "Mario R.", UpdatedAt: t0})
	want := model.Profile{
		UserID:      "u1",
		Name:        "Mario R.",
		DisplayName: "Mario Rossi",
		AvatarURL:   ptr("https://cdn/a.png"),
		AvatarColor: "#000000",
		UpdatedAt:   t1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPost(t *testing.T) {
	tests := []struct {
		name   string
		post   model.Post
		want   model.Profile
		wantOK bool
	}{
		{
			name:   "no author id",
			post:   model.Post{AuthorName: "Mario", DisplayName: "Mario"},
			wantOK: false,
		},
		{
			name:   "placeholder name",
			post:   model.Post{AuthorID: ptr("u1"), AuthorName: model.LikeNameFallback, DisplayName: model.LikeNameFallback},
			wantOK: false,
		},
		{
			name: "fallback fields left empty",
			post: model.Post{
				AuthorID:    ptr("u1"),
				AuthorName:  "Mario",
				DisplayName: "Mario",
				AvatarColor: model.DefaultAvatarColor,
			},
			want:   model.Profile{UserID: "u1", Name: "Mario", UpdatedAt: t0},
			wantOK: true,
		},
		{
			name: "explicit fields kept",
			post: model.Post{
				AuthorID:        ptr("u1"),
				AuthorName:      "mrossi",
				DisplayName:     "Mario Rossi",
				AvatarColor:     "#123456",
				AuthorAvatarURL: ptr("https://cdn/a.png"),
			},
			want: model.Profile{
				UserID:      "u1",
				Name:        "mrossi",
				DisplayName: "Mario Rossi",
				AvatarURL:   ptr("https://cdn/a.png"),
				AvatarColor: "#123456",
				UpdatedAt:   t0,
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromPost(tt.post, t0)
			if ok != tt.wantOK {
				t.Fatalf("FromPost() ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromPost() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFillsLaterPosts(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	first := &model.Post{
		ID:              "p1",
		AuthorID:        ptr("u1"),
		AuthorName:      "mrossi",
		DisplayName:     "Mario Rossi",
		AvatarColor:     model.DefaultAvatarColor,
		AuthorAvatarURL: ptr("https://cdn/a.png"),
	}
	second := &model.Post{
		ID:          "p2",
		AuthorID:    ptr("u1"),
		AuthorName:  "mrossi",
		DisplayName: "mrossi",
		AvatarColor: model.DefaultAvatarColor,
	}
	anonymous := &model.Post{
		ID:          "p3",
		AuthorID:    ptr("u1"),
		AuthorName:  model.LikeNameFallback,
		DisplayName: model.LikeNameFallback,
		AvatarColor: model.DefaultAvatarColor,
	}

	if err := Apply(ctx, cache, []*model.Post{first, second, anonymous}, t0); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	wantSecond := &model.Post{
		ID:              "p2",
		AuthorID:        ptr("u1"),
		AuthorName:      "mrossi",
		DisplayName:     "Mario Rossi",
		AvatarColor:     model.DefaultAvatarColor,
		AuthorAvatarURL: ptr("https://cdn/a.png"),
	}
	if diff := cmp.Diff(wantSecond, second); diff != "" {
		t.Errorf("second post mismatch (-want +got):\n%s", diff)
	}
	wantAnonymous := &model.Post{
		ID:              "p3",
		AuthorID:        ptr("u1"),
		AuthorName:      "mrossi",
		DisplayName:     "Mario Rossi",
		AvatarColor:     model.DefaultAvatarColor,
		AuthorAvatarURL: ptr("https://cdn/a.png"),
	}
	if diff := cmp.Diff(wantAnonymous, anonymous); diff != "" {
		t.Errorf("anonymous post mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, cache.Len()); diff != "" {
		t.Errorf("cache size mismatch (-want +got):\n%s", diff)
	}
}

type failingCache struct{}

func (failingCache) Profile(context.Context, string) (model.Profile, bool, error) {
	return model.Profile{}, false, errors.New("boom")
}

func (failingCache) SaveProfile(context.Context, model.Profile) error { return nil }

func TestApplyPropagatesErrors(t *testing.T) {
	posts := []*model.Post{{ID: "p1", AuthorID: ptr("u1"), AuthorName: "x", DisplayName: "x"}}
	if err := Apply(context.Background(), failingCache{}, posts, t0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMemoryConcurrentUse(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%5))
			_ = cache.SaveProfile(ctx, model.Profile{UserID: id, Name: id})
			_, _, _ = cache.Profile(ctx, id)
		}()
	}
	wg.Wait()
	if diff := cmp.Diff(5, cache.Len()); diff != "" {
		t.Errorf("cache size mismatch (-want +got):\n%s", diff)
	}
}
