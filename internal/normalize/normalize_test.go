package normalize

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"socialfeed/internal/model"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeResolver map[string]string

func (f fakeResolver) PublicURL(bucket, path string) (string, bool) {
	u, ok := f[bucket+"/"+path]
	return u, ok
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fakeResolver{"posts/a/b.jpg": "https://cdn.example.com/posts/a/b.jpg"}, log).
		WithClock(func() time.Time { return testNow })
}

// decode parses a JSON fixture the way the gateway does.
func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}

func ptr[T any](v T) *T { return &v }

func TestPostScenario(t *testing.T) {
	n := newTestNormalizer(t)
	raw := decode(t, `{"id":"p1","author":"Mario","likes":[{"user_id":"u1"}],"comments":[{"text":"hi"}]}`)

	got, ok := n.Post(raw)
	if !ok {
		t.Fatal("expected post to be accepted")
	}
	want := model.Post{
		ID:          "p1",
		AuthorName:  "Mario",
		DisplayName: "Mario",
		AvatarColor: model.DefaultAvatarColor,
		TimeLabel:   "1m",
		Content:     "",
		Likes: []model.LikeEntry{
			{UserID: "u1", Name: "Utente", Initials: "U"},
		},
		LikesCount: 1,
		Comments: []model.CommentEntry{
			{AuthorName: "Utente", Initials: "U", Text: "hi"},
		},
		CommentsCount: 1,
		Media:         []model.MediaItem{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Post() mismatch (-want +got):\n%s", diff)
	}
}

func TestPostFields(t *testing.T) {
	n := newTestNormalizer(t)
	raw := decode(t, `{
		"post_id": 42,
		"author": {"id": "u9", "name": "  Anna Maria Rossi ", "avatar_url": "https://a/x.png"},
		"created_at": "2025-03-10T09:30:00Z",
		"text": "  ciao  ",
		"image_url": "   ",
		"likes": [{"user_id": "u1", "name": "Luca"}, {"user_id": "u2"}, {"user_id": "u1", "name": "Luca B"}],
		"likes_count": "17",
		"liked_by_me": "TRUE",
		"comments_count": 3.9,
		"media": [
			{"type": "image/jpeg", "url": "https://cdn/x.jpg", "width": 100, "height": "50"},
			{"mime_type": "video/mp4", "bucket": "posts", "path": "a/b.jpg"},
			{"type": "audio", "bucket": "posts", "path": "missing"}
		]
	}`)

	got, ok := n.Post(raw)
	if !ok {
		t.Fatal("expected post to be accepted")
	}
	want := model.Post{
		ID:              "42",
		AuthorID:        ptr("u9"),
		AuthorName:      "Anna Maria Rossi",
		DisplayName:     "Anna Maria Rossi",
		AvatarColor:     model.DefaultAvatarColor,
		AuthorAvatarURL: ptr("https://a/x.png"),
		TimeLabel:       "2h",
		Content:         "ciao",
		Likes: []model.LikeEntry{
			{UserID: "u1", Name: "Luca B", Initials: "LB"},
			{UserID: "u2", Name: "Utente", Initials: "U"},
		},
		LikesCount:    17,
		LikedByMe:     true,
		Comments:      []model.CommentEntry{},
		CommentsCount: 3,
		Media: []model.MediaItem{
			{MediaType: model.MediaImage, PublicURL: ptr("https://cdn/x.jpg"), Width: ptr(100), Height: ptr(50)},
			{MediaType: model.MediaVideo, PublicURL: ptr("https://cdn.example.com/posts/a/b.jpg")},
			{MediaType: model.MediaOther},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Post() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnresolvedMediaIsLogged(t *testing.T) {
	var buf bytes.Buffer
	n := New(nil, slog.New(slog.NewTextHandler(&buf, nil)))

	got, ok := n.Media(map[string]any{"type": "image", "bucket": "b", "path": "p"})
	if !ok {
		t.Fatal("media without url must be kept")
	}
	if got.PublicURL != nil {
		t.Errorf("expected nil url, got %q", *got.PublicURL)
	}
	if !strings.Contains(buf.String(), "media url unresolved") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestDropMalformedKeepsOrder(t *testing.T) {
	n := newTestNormalizer(t)

	posts := Records(decode(t, `[{"id":"a"},{"author":"x"},{"id":"  "},{"id":"b"},"junk",{"id":"c"}]`))
	var ids []string
	for _, it := range Items(posts, n.PostItem) {
		ids = append(ids, it.ID())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("post ids mismatch (-want +got):\n%s", diff)
	}

	comments := n.Comments(Records(decode(t, `[{"id":"1","text":"one"},{"id":"2"},{"id":"3","body":"three"},{"id":"4","text":""}]`)))
	var texts []string
	for _, c := range comments {
		texts = append(texts, c.Text)
	}
	if diff := cmp.Diff([]string{"one", "three"}, texts); diff != "" {
		t.Errorf("comment texts mismatch (-want +got):\n%s", diff)
	}

	likes := n.Likes(Records(decode(t, `[{"user_id":"u1"},{"name":"nobody"},{"userId":"u2"}]`)))
	var users []string
	for _, l := range likes {
		users = append(users, l.UserID)
	}
	if diff := cmp.Diff([]string{"u1", "u2"}, users); diff != "" {
		t.Errorf("like users mismatch (-want +got):\n%s", diff)
	}
}

func TestOfficial(t *testing.T) {
	n := newTestNormalizer(t)
	tests := []struct {
		name   string
		raw    string
		want   model.Official
		wantOK bool
	}{
		{
			name:   "title defaults to brand",
			raw:    `{"id":"o1","body":"hello"}`,
			want:   model.Official{ID: "o1", Title: model.OfficialTitle, Body: "hello"},
			wantOK: true,
		},
		{
			name: "headline and pinned string",
			raw:  `{"id":"o2","headline":"Orari","pinned":"true","link":"https://x","created_at":"2025-01-02"}`,
			want: model.Official{
				ID: "o2", Title: "Orari", TargetURL: ptr("https://x"), Pinned: true,
				CreatedAt: ptr(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
			},
			wantOK: true,
		},
		{name: "missing id", raw: `{"title":"x"}`},
		{name: "no title and no body", raw: `{"id":"o3","image_url":"https://img"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Official(decode(t, tt.raw))
			if diff := cmp.Diff(tt.wantOK, ok); diff != "" {
				t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Official() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSponsored(t *testing.T) {
	n := newTestNormalizer(t)
	got, ok := n.Sponsored(decode(t, `{"id":"s1","title":"Promo","start_date":"2025-03-01T00:00:00Z","priority":"x"}`))
	if !ok {
		t.Fatal("expected sponsored to be accepted")
	}
	want := model.Sponsored{
		ID:          "s1",
		SponsorName: model.SponsorFallback,
		Title:       "Promo",
		StartsAt:    ptr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sponsored() mismatch (-want +got):\n%s", diff)
	}

	got, ok = n.Sponsored(decode(t, `{"id":"s2","sponsor":{"name":"Acme"},"priority":5}`))
	if !ok {
		t.Fatal("expected sponsored to be accepted")
	}
	if diff := cmp.Diff([2]any{"Acme", 5}, [2]any{got.SponsorName, got.Priority}); diff != "" {
		t.Errorf("sponsor/priority mismatch (-want +got):\n%s", diff)
	}

	if _, ok := n.Sponsored(decode(t, `{"title":"no id"}`)); ok {
		t.Error("expected sponsored without id to be dropped")
	}
}

func TestEventNews(t *testing.T) {
	n := newTestNormalizer(t)
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantTitle string
		wantType  model.EventNewsType
	}{
		{name: "explicit title", raw: `{"id":"e1","type":"event","title":"Sagra"}`, wantOK: true, wantTitle: "Sagra", wantType: model.TypeEvent},
		{name: "excerpt fallback", raw: `{"id":"e2","type":"NEWS","summary":"Breve"}`, wantOK: true, wantTitle: "Breve", wantType: model.TypeNews},
		{name: "content fallback", raw: `{"id":"e3","content":"Testo lungo"}`, wantOK: true, wantTitle: "Testo lungo", wantType: model.TypeNews},
		{name: "start date implies event", raw: `{"id":"e4","title":"Concerto","start_at":1741600000}`, wantOK: true, wantTitle: "Concerto", wantType: model.TypeEvent},
		{name: "all text empty", raw: `{"id":"e5","title":" ","image_url":"https://img"}`},
		{name: "missing id", raw: `{"title":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.EventNews(decode(t, tt.raw))
			if diff := cmp.Diff(tt.wantOK, ok); diff != "" {
				t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.wantTitle, got.Title); diff != "" {
				t.Errorf("title mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantType, got.Type); diff != "" {
				t.Errorf("type mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHomeFeed(t *testing.T) {
	n := newTestNormalizer(t)
	tests := []struct {
		name      string
		payload   string
		wantKinds []model.Kind
		wantIDs   []string
	}{
		{
			name: "unified items with kind dispatch",
			payload: `{"items":[
				{"kind":"official","id":"o1","title":"Avviso"},
				{"kind":"post","post":{"id":"p1"}},
				{"kind":"sponsored","data":{"id":"s1"}},
				{"id":"p2","text":"plain"},
				{"kind":"event_news","id":"e1","excerpt":"x"},
				{"kind":"official","id":"o2"}
			]}`,
			wantKinds: []model.Kind{model.KindOfficial, model.KindPost, model.KindSponsored, model.KindPost, model.KindEventNews},
			wantIDs:   []string{"o1", "p1", "s1", "p2", "e1"},
		},
		{
			name:      "feed key",
			payload:   `{"feed":[{"id":"p1"}]}`,
			wantKinds: []model.Kind{model.KindPost},
			wantIDs:   []string{"p1"},
		},
		{
			name:      "legacy fallback with only official",
			payload:   `{"posts":[],"official_posts":[{"id":"o1","body":"hello"}]}`,
			wantKinds: []model.Kind{model.KindOfficial},
			wantIDs:   []string{"o1"},
		},
		{
			name: "legacy arrays concatenate in fixed order",
			payload: `{"items":[{"kind":"official","id":"bad"}],
				"events_news":[{"id":"e1","title":"t"}],
				"sponsored":[{"id":"s1"}],
				"official":[{"id":"o1","title":"t"}],
				"posts":[{"id":"p1"},{"id":"p2"}]}`,
			wantKinds: []model.Kind{model.KindPost, model.KindPost, model.KindOfficial, model.KindSponsored, model.KindEventNews},
			wantIDs:   []string{"p1", "p2", "o1", "s1", "e1"},
		},
		{
			name:    "text body yields nothing",
			payload: `"not json"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := n.HomeFeed(decode(t, tt.payload))
			var kinds []model.Kind
			var ids []string
			for _, it := range items {
				kinds = append(kinds, it.Kind)
				ids = append(ids, it.ID())
			}
			if diff := cmp.Diff(tt.wantKinds, kinds); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHomeFeedLegacyOfficialTitle(t *testing.T) {
	n := newTestNormalizer(t)
	items := n.HomeFeed(decode(t, `{"posts":[],"official_posts":[{"id":"o1","body":"hello"}]}`))
	if len(items) != 1 || items[0].Official == nil {
		t.Fatalf("expected a single official item, got %+v", items)
	}
	if diff := cmp.Diff(model.OfficialTitle, items[0].Official.Title); diff != "" {
		t.Errorf("title mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		keys    []string
		want    int
	}{
		{name: "bare array", payload: `[{},{}]`, want: 2},
		{name: "first matching key", payload: `{"comments":[{}],"items":[{},{}]}`, keys: CommentsKeys, want: 1},
		{name: "nested data object", payload: `{"data":{"likes":[{},{},{}]}}`, keys: LikesKeys, want: 3},
		{name: "non-array under key is skipped", payload: `{"posts":{"x":1},"items":[{}]}`, keys: UserPostsKeys, want: 1},
		{name: "nothing", payload: `{"ok":true}`, keys: LikesKeys, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Records(decode(t, tt.payload), tt.keys...)
			if diff := cmp.Diff(tt.want, len(got)); diff != "" {
				t.Errorf("record count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
