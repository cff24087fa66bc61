// Package content exposes the remote feed endpoints as typed, normalized
// pages.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"socialfeed/internal/gateway"
	"socialfeed/internal/model"
	"socialfeed/internal/normalize"
	"socialfeed/internal/profilecache"
)

// API endpoints.
const (
	PathHomeFeed   = "/api/feed/home"
	PathEventsNews = "/api/content/events-news"
	pathPosts      = "/api/posts/"
	pathUsers      = "/api/users/"
)

// ErrMissingID is returned when a post or user id argument is blank.
var ErrMissingID = errors.New("missing id")

// Getter performs GET requests against the content API.
type Getter interface {
	Get(ctx context.Context, path string, params gateway.Params) (*gateway.Response, error)
}

// NewsSource fetches an external feed as raw news records.
type NewsSource interface {
	FetchRecords(ctx context.Context, url string) ([]any, error)
}

// CommentPage is a page of comments.
type CommentPage struct {
	Comments   []model.CommentEntry `json:"comments"`
	HasMore    bool                 `json:"has_more"`
	NextOffset int                  `json:"next_offset"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

// LikePage is a page of likes.
type LikePage struct {
	Likes      []model.LikeEntry `json:"likes"`
	HasMore    bool              `json:"has_more"`
	NextOffset int               `json:"next_offset"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// Service fetches and normalizes remote content.
type Service struct {
	api      Getter
	norm     *normalize.Normalizer
	profiles profilecache.Cache
	news     NewsSource
	now      func() time.Time
	log      *slog.Logger
}

// New creates a Service. profiles and news may be nil; without a profile
// cache posts are returned as normalized, without a news source
// ExternalNews fails.
func New(api Getter, norm *normalize.Normalizer, profiles profilecache.Cache, news NewsSource, log *slog.Logger) *Service {
	return &Service{
		api:      api,
		norm:     norm,
		profiles: profiles,
		news:     news,
		now:      time.Now,
		log:      log,
	}
}

// HomeFeed returns a page of the unified home feed.
func (s *Service) HomeFeed(ctx context.Context, limit, offset int) (*model.Page, error) {
	limit, offset = window(limit, offset)
	resp, err := s.api.Get(ctx, PathHomeFeed, gateway.Params{"limit": limit, "offset": offset})
	if err != nil {
		return nil, err
	}

	items := s.norm.HomeFeed(resp.Body)
	s.completeAuthors(ctx, items)
	s.log.Debug("home feed", "limit", limit, "offset", offset, "items", len(items))

	return &model.Page{
		Items:      items,
		HasMore:    normalize.HomeFeedHasMore(resp.Body, limit, offset, len(items)),
		NextOffset: normalize.NextOffset(resp.Body, offset, len(items)),
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// EventsNews returns a page of events and news. An empty typ returns both.
func (s *Service) EventsNews(ctx context.Context, limit, offset int, typ model.EventNewsType) (*model.Page, error) {
	limit, offset = window(limit, offset)
	params := gateway.Params{"limit": limit, "offset": offset, "type": string(typ)}
	resp, err := s.api.Get(ctx, PathEventsNews, params)
	if err != nil {
		return nil, err
	}

	raw := normalize.Records(resp.Body, normalize.EventsNewsKeys...)
	items := normalize.Items(raw, s.norm.EventNewsItem)
	return s.page(resp.Body, items, limit, offset), nil
}

// PostComments returns a page of comments on a post.
func (s *Service) PostComments(ctx context.Context, postID string, limit, offset int) (*CommentPage, error) {
	p, err := idPath(pathPosts, postID, "/comments")
	if err != nil {
		return nil, err
	}
	limit, offset = window(limit, offset)
	resp, err := s.api.Get(ctx, p, gateway.Params{"limit": limit, "offset": offset})
	if err != nil {
		return nil, err
	}

	comments := s.norm.Comments(normalize.Records(resp.Body, normalize.CommentsKeys...))
	return &CommentPage{
		Comments:   comments,
		HasMore:    normalize.HasMore(resp.Body, limit, offset, len(comments)),
		NextOffset: normalize.NextOffset(resp.Body, offset, len(comments)),
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// PostLikes returns a page of likes on a post.
func (s *Service) PostLikes(ctx context.Context, postID string, limit, offset int) (*LikePage, error) {
	p, err := idPath(pathPosts, postID, "/likes")
	if err != nil {
		return nil, err
	}
	limit, offset = window(limit, offset)
	resp, err := s.api.Get(ctx, p, gateway.Params{"limit": limit, "offset": offset})
	if err != nil {
		return nil, err
	}

	likes := s.norm.Likes(normalize.Records(resp.Body, normalize.LikesKeys...))
	return &LikePage{
		Likes:      likes,
		HasMore:    normalize.HasMore(resp.Body, limit, offset, len(likes)),
		NextOffset: normalize.NextOffset(resp.Body, offset, len(likes)),
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// UserPosts returns a page of posts written by a user.
func (s *Service) UserPosts(ctx context.Context, userID string, limit, offset int) (*model.Page, error) {
	p, err := idPath(pathUsers, userID, "/posts")
	if err != nil {
		return nil, err
	}
	limit, offset = window(limit, offset)
	resp, err := s.api.Get(ctx, p, gateway.Params{"limit": limit, "offset": offset})
	if err != nil {
		return nil, err
	}

	items := normalize.Items(normalize.Records(resp.Body, normalize.UserPostsKeys...), s.norm.PostItem)
	s.completeAuthors(ctx, items)
	return s.page(resp.Body, items, limit, offset), nil
}

// ExternalNews reads an RSS/Atom feed and normalizes its entries as news.
func (s *Service) ExternalNews(ctx context.Context, feedURL string) ([]model.Item, error) {
	if s.news == nil {
		return nil, errors.New("no news source configured")
	}
	raw, err := s.news.FetchRecords(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	return normalize.Items(raw, s.norm.EventNewsItem), nil
}

func (s *Service) page(payload any, items []model.Item, limit, offset int) *model.Page {
	return &model.Page{
		Items:      items,
		HasMore:    normalize.HasMore(payload, limit, offset, len(items)),
		NextOffset: normalize.NextOffset(payload, offset, len(items)),
		Limit:      limit,
		Offset:     offset,
	}
}

// completeAuthors fills author details from the profile cache. Cache
// failures are logged; the page is still returned.
func (s *Service) completeAuthors(ctx context.Context, items []model.Item) {
	if s.profiles == nil {
		return
	}
	var posts []*model.Post
	for _, it := range items {
		if it.Post != nil {
			posts = append(posts, it.Post)
		}
	}
	if err := profilecache.Apply(ctx, s.profiles, posts, s.now()); err != nil {
		s.log.Warn("profile cache", "error", err)
	}
}

func window(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = model.DefaultPageLimit
	}
	return limit, max(offset, 0)
}

func idPath(prefix, id, suffix string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}
	return prefix + url.PathEscape(id) + suffix, nil
}
