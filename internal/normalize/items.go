// Package normalize converts heterogeneous remote JSON payloads into the
// canonical feed model and derives pagination state.
//
// Every field is resolved through an ordered chain of candidate keys (see
// keys.go). Records missing their identifying fields are dropped; they never
// abort normalization of the remaining records.
package normalize

import (
	"log/slog"
	"strings"
	"time"

	"socialfeed/internal/model"
)

// URLResolver maps a storage bucket and object path to a public URL.
type URLResolver interface {
	PublicURL(bucket, path string) (string, bool)
}

// Normalizer holds the collaborators needed to build canonical items.
type Normalizer struct {
	resolver URLResolver
	now      func() time.Time
	log      *slog.Logger
}

// New creates a Normalizer. resolver may be nil, in which case media
// records without a direct URL stay unresolved.
func New(resolver URLResolver, log *slog.Logger) *Normalizer {
	return &Normalizer{
		resolver: resolver,
		now:      time.Now,
		log:      log,
	}
}

// WithClock returns a copy of n using now for relative time labels.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	cp := *n
	cp.now = now
	return &cp
}

// Post normalizes a raw post. It reports false when the record has no id.
func (n *Normalizer) Post(raw any) (model.Post, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.Post{}, false
	}
	id, ok := String(rec, PostIDKeys)
	if !ok {
		return model.Post{}, false
	}

	authorName, _ := String(rec, PostAuthorNameKeys)
	displayName, _ := String(rec, PostDisplayNameKeys)
	if authorName == "" {
		authorName = displayName
	}
	if displayName == "" {
		displayName = authorName
	}
	if authorName == "" {
		authorName, displayName = model.LikeNameFallback, model.LikeNameFallback
	}

	var likes []model.LikeEntry
	if arr, ok := FirstArray(rec, PostLikesKeys); ok {
		likes = n.Likes(arr)
	}
	likesCount, ok := FirstInt(rec, PostLikesCountKeys)
	if !ok {
		likesCount = len(likes)
	}

	var comments []model.CommentEntry
	if arr, ok := FirstArray(rec, PostCommentsKeys); ok {
		comments = n.Comments(arr)
	}
	commentsCount, ok := FirstInt(rec, PostCommentsCntKeys)
	if !ok {
		commentsCount = len(comments)
	}

	var media []model.MediaItem
	if arr, ok := FirstArray(rec, PostMediaKeys); ok {
		media = n.MediaItems(arr)
	}

	likedByMe, _ := FirstBool(rec, PostLikedByMeKeys)

	return model.Post{
		ID:              id,
		AuthorID:        OptString(rec, PostAuthorIDKeys),
		AuthorName:      authorName,
		DisplayName:     displayName,
		AvatarColor:     StringOr(rec, PostAvatarColorKeys, model.DefaultAvatarColor),
		AuthorAvatarURL: OptString(rec, PostAvatarURLKeys),
		TimeLabel:       RelativeTime(FirstTime(rec, CreatedAtKeys), n.now()),
		Content:         StringOr(rec, PostContentKeys, ""),
		ImageURL:        OptString(rec, PostImageKeys),
		Likes:           nonNil(likes),
		LikesCount:      max(likesCount, 0),
		LikedByMe:       likedByMe,
		Comments:        nonNil(comments),
		CommentsCount:   max(commentsCount, 0),
		Media:           nonNil(media),
	}, true
}

// Official normalizes an official announcement. It reports false when the
// record has no id or carries neither title nor body.
func (n *Normalizer) Official(raw any) (model.Official, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.Official{}, false
	}
	id, ok := String(rec, OfficialIDKeys)
	if !ok {
		return model.Official{}, false
	}
	title, hasTitle := String(rec, TitleKeys)
	body, hasBody := String(rec, BodyKeys)
	if !hasTitle && !hasBody {
		return model.Official{}, false
	}
	if !hasTitle {
		title = model.OfficialTitle
	}
	pinned, _ := FirstBool(rec, PinnedKeys)

	return model.Official{
		ID:        id,
		Title:     title,
		Body:      body,
		ImageURL:  OptString(rec, ImageURLKeys),
		TargetURL: OptString(rec, TargetURLKeys),
		Pinned:    pinned,
		CreatedAt: FirstTime(rec, CreatedAtKeys),
	}, true
}

// Sponsored normalizes a sponsored placement. It reports false when the
// record has no id.
func (n *Normalizer) Sponsored(raw any) (model.Sponsored, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.Sponsored{}, false
	}
	id, ok := String(rec, SponsoredIDKeys)
	if !ok {
		return model.Sponsored{}, false
	}
	priority, _ := FirstInt(rec, SponsorPriorityKeys)

	return model.Sponsored{
		ID:          id,
		SponsorName: StringOr(rec, SponsorNameKeys, model.SponsorFallback),
		Title:       StringOr(rec, TitleKeys, ""),
		Body:        StringOr(rec, BodyKeys, ""),
		ImageURL:    OptString(rec, ImageURLKeys),
		TargetURL:   OptString(rec, TargetURLKeys),
		StartsAt:    FirstTime(rec, SponsorStartKeys),
		EndsAt:      FirstTime(rec, SponsorEndKeys),
		Priority:    priority,
		CreatedAt:   FirstTime(rec, CreatedAtKeys),
	}, true
}

// EventNews normalizes an event or news article. It reports false when the
// record has no id or none of title, excerpt and content.
func (n *Normalizer) EventNews(raw any) (model.EventNews, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.EventNews{}, false
	}
	id, ok := String(rec, EventNewsIDKeys)
	if !ok {
		return model.EventNews{}, false
	}
	title, _ := String(rec, EventNewsTitleKeys)
	excerpt, _ := String(rec, EventNewsExcerptKeys)
	content, _ := String(rec, EventNewsContentKeys)
	if title == "" && excerpt == "" && content == "" {
		return model.EventNews{}, false
	}
	for _, candidate := range []string{title, excerpt, content, model.EventNewsPlaceholder} {
		if candidate != "" {
			title = candidate
			break
		}
	}

	startsAt := FirstTime(rec, EventNewsStartKeys)
	pinned, _ := FirstBool(rec, PinnedKeys)

	return model.EventNews{
		ID:          id,
		Type:        eventNewsType(rec, startsAt),
		Title:       title,
		Excerpt:     excerpt,
		Content:     content,
		ImageURL:    OptString(rec, ImageURLKeys),
		Location:    OptString(rec, EventNewsLocationKeys),
		StartsAt:    startsAt,
		EndsAt:      FirstTime(rec, EventNewsEndKeys),
		ExternalURL: OptString(rec, EventNewsExternalKeys),
		Pinned:      pinned,
		CreatedAt:   FirstTime(rec, CreatedAtKeys),
	}, true
}

func eventNewsType(rec Record, startsAt *time.Time) model.EventNewsType {
	raw, _ := String(rec, EventNewsTypeKeys)
	switch strings.ToLower(raw) {
	case "event", "events":
		return model.TypeEvent
	case "news", "article":
		return model.TypeNews
	}
	if startsAt != nil {
		return model.TypeEvent
	}
	return model.TypeNews
}

// Like normalizes a like entry. It reports false when no user id resolves.
func (n *Normalizer) Like(raw any) (model.LikeEntry, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.LikeEntry{}, false
	}
	userID, ok := String(rec, LikeUserIDKeys)
	if !ok {
		return model.LikeEntry{}, false
	}
	name := StringOr(rec, LikeNameKeys, model.LikeNameFallback)
	return model.LikeEntry{
		UserID:    userID,
		Name:      name,
		Initials:  Initials(name),
		AvatarURL: OptString(rec, LikeAvatarKeys),
	}, true
}

// Likes normalizes a like list, de-duplicating by user id. Duplicates are
// resolved last-write-wins: an entry keeps the position of the first
// occurrence of its user and the values of the last.
func (n *Normalizer) Likes(raw []any) []model.LikeEntry {
	out := make([]model.LikeEntry, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, r := range raw {
		like, ok := n.Like(r)
		if !ok {
			continue
		}
		if i, seen := index[like.UserID]; seen {
			out[i] = like
			continue
		}
		index[like.UserID] = len(out)
		out = append(out, like)
	}
	return out
}

// Comment normalizes a comment. It reports false when the text is empty.
func (n *Normalizer) Comment(raw any) (model.CommentEntry, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.CommentEntry{}, false
	}
	text, ok := String(rec, CommentTextKeys)
	if !ok {
		return model.CommentEntry{}, false
	}
	name := StringOr(rec, CommentAuthorNameKeys, model.LikeNameFallback)
	return model.CommentEntry{
		ID:              StringOr(rec, CommentIDKeys, ""),
		AuthorID:        OptString(rec, CommentAuthorIDKeys),
		AuthorName:      name,
		Initials:        Initials(name),
		AuthorAvatarURL: OptString(rec, CommentAvatarKeys),
		Text:            text,
		CreatedAt:       FirstTime(rec, CreatedAtKeys),
	}, true
}

// Comments normalizes a comment list, dropping entries without text.
func (n *Normalizer) Comments(raw []any) []model.CommentEntry {
	out := make([]model.CommentEntry, 0, len(raw))
	for _, r := range raw {
		if c, ok := n.Comment(r); ok {
			out = append(out, c)
		}
	}
	return out
}

// Media normalizes a media attachment. Records are never dropped for a
// missing URL; PublicURL is left nil and a warning is logged instead.
func (n *Normalizer) Media(raw any) (model.MediaItem, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.MediaItem{}, false
	}
	typ, _ := String(rec, MediaTypeKeys)
	item := model.MediaItem{
		MediaType: MediaTypeOf(typ),
		PublicURL: n.mediaURL(rec),
	}
	if w, ok := FirstInt(rec, MediaWidthKeys); ok {
		item.Width = &w
	}
	if h, ok := FirstInt(rec, MediaHeightKeys); ok {
		item.Height = &h
	}
	return item, true
}

func (n *Normalizer) mediaURL(rec Record) *string {
	if u := OptString(rec, MediaURLKeys); u != nil {
		return u
	}
	bucket, _ := String(rec, MediaBucketKeys)
	path, _ := String(rec, MediaPathKeys)
	if n.resolver != nil && bucket != "" && path != "" {
		if u, ok := n.resolver.PublicURL(bucket, path); ok && u != "" {
			return &u
		}
	}
	n.log.Warn("media url unresolved", "bucket", bucket, "path", path)
	return nil
}

// MediaItems normalizes a media list.
func (n *Normalizer) MediaItems(raw []any) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(raw))
	for _, r := range raw {
		if m, ok := n.Media(r); ok {
			out = append(out, m)
		}
	}
	return out
}

// MediaTypeOf classifies a raw media type or MIME type string.
func MediaTypeOf(raw string) model.MediaType {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case t == "image" || strings.HasPrefix(t, "image/"):
		return model.MediaImage
	case t == "video" || strings.HasPrefix(t, "video/"):
		return model.MediaVideo
	}
	return model.MediaOther
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
