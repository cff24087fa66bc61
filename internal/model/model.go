// Package model defines the canonical feed types produced by normalization.
package model

import "time"

// Kind discriminates the variants of a canonical feed item.
type Kind string

// Supported item kinds.
const (
	KindPost      Kind = "post"
	KindOfficial  Kind = "official"
	KindSponsored Kind = "sponsored"
	KindEventNews Kind = "event_news"
)

// Fallback values applied when the remote payload omits a field.
const (
	DefaultAvatarColor   = "#E53935"
	OfficialTitle        = "Comunicazione ufficiale"
	SponsorFallback      = "Partner"
	LikeNameFallback     = "Utente"
	InitialsPlaceholder  = "UT"
	EventNewsPlaceholder = "Senza titolo"
	DefaultMaxLongSide   = 1600
	DefaultUploadQuality = 0.8
	DefaultPageLimit     = 20
)

// Item is a tagged union over the canonical kinds. Exactly one payload
// pointer matching Kind is non-nil.
type Item struct {
	Kind      Kind       `json:"kind"`
	Post      *Post      `json:"post,omitempty"`
	Official  *Official  `json:"official,omitempty"`
	Sponsored *Sponsored `json:"sponsored,omitempty"`
	EventNews *EventNews `json:"event_news,omitempty"`
}

// ID returns the identifier of the wrapped payload.
func (i Item) ID() string {
	switch i.Kind {
	case KindPost:
		if i.Post != nil {
			return i.Post.ID
		}
	case KindOfficial:
		if i.Official != nil {
			return i.Official.ID
		}
	case KindSponsored:
		if i.Sponsored != nil {
			return i.Sponsored.ID
		}
	case KindEventNews:
		if i.EventNews != nil {
			return i.EventNews.ID
		}
	}
	return ""
}

// Post is a user-authored feed post.
type Post struct {
	ID              string         `json:"id"`
	AuthorID        *string        `json:"author_id"`
	AuthorName      string         `json:"author_name"`
	DisplayName     string         `json:"display_name"`
	AvatarColor     string         `json:"avatar_color"`
	AuthorAvatarURL *string        `json:"author_avatar_url"`
	TimeLabel       string         `json:"time_label"`
	Content         string         `json:"content"`
	ImageURL        *string        `json:"image_url"`
	Likes           []LikeEntry    `json:"likes"`
	LikesCount      int            `json:"likes_count"`
	LikedByMe       bool           `json:"liked_by_me"`
	Comments        []CommentEntry `json:"comments"`
	CommentsCount   int            `json:"comments_count"`
	Media           []MediaItem    `json:"media"`
}

// Official is an announcement published by the organization.
type Official struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ImageURL  *string    `json:"image_url"`
	TargetURL *string    `json:"target_url"`
	Pinned    bool       `json:"pinned"`
	CreatedAt *time.Time `json:"created_at"`
}

// Sponsored is a partner placement inside the feed.
type Sponsored struct {
	ID          string     `json:"id"`
	SponsorName string     `json:"sponsor_name"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	ImageURL    *string    `json:"image_url"`
	TargetURL   *string    `json:"target_url"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Priority    int        `json:"priority"`
	CreatedAt   *time.Time `json:"created_at"`
}

// EventNewsType separates events from news articles.
type EventNewsType string

// Supported event/news types.
const (
	TypeEvent EventNewsType = "event"
	TypeNews  EventNewsType = "news"
)

// EventNews is an event or a news article.
type EventNews struct {
	ID          string        `json:"id"`
	Type        EventNewsType `json:"type"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Content     string        `json:"content"`
	ImageURL    *string       `json:"image_url"`
	Location    *string       `json:"location"`
	StartsAt    *time.Time    `json:"starts_at"`
	EndsAt      *time.Time    `json:"ends_at"`
	ExternalURL *string       `json:"external_url"`
	Pinned      bool          `json:"pinned"`
	CreatedAt   *time.Time    `json:"created_at"`
}

// LikeEntry is a single user who liked a post.
type LikeEntry struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Initials  string  `json:"initials"`
	AvatarURL *string `json:"avatar_url"`
}

// CommentEntry is a single comment on a post.
type CommentEntry struct {
	ID              string     `json:"id"`
	AuthorID        *string    `json:"author_id"`
	AuthorName      string     `json:"author_name"`
	Initials        string     `json:"initials"`
	AuthorAvatarURL *string    `json:"author_avatar_url"`
	Text            string     `json:"text"`
	CreatedAt       *time.Time `json:"created_at"`
}

// MediaType classifies a media attachment.
type MediaType string

// Supported media types.
const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

// MediaItem is an attachment of a post. PublicURL is nil when the remote
// record carried neither a direct URL nor a resolvable bucket/path pair.
type MediaItem struct {
	MediaType MediaType `json:"media_type"`
	PublicURL *string   `json:"public_url"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
}

// Page is one page of canonical items plus pagination state.
type Page struct {
	Items      []Item `json:"items"`
	HasMore    bool   `json:"has_more"`
	NextOffset int    `json:"next_offset"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// Profile is the cached public profile of a user.
type Profile struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	AvatarColor string    `json:"avatar_color"`
	UpdatedAt   time.Time `json:"updated_at"`
}
