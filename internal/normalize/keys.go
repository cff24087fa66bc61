package normalize

// KeysVersion identifies the set of payload shapes covered by the fallback
// chains below. Bump it whenever a chain changes.
const KeysVersion = 4

// Fallback key chains. Order matters: the first non-empty value wins.
// Dotted keys address nested objects.
var (
	CreatedAtKeys = []string{"created_at", "createdAt", "published_at", "publishedAt", "inserted_at", "timestamp"}
	ImageURLKeys  = []string{"image_url", "imageUrl", "image", "cover_url", "coverUrl", "photo_url", "photoUrl"}
	TargetURLKeys = []string{"target_url", "targetUrl", "link_url", "link", "url", "cta_url"}
	PinnedKeys    = []string{"pinned", "is_pinned", "isPinned"}
	BodyKeys      = []string{"body", "content", "text", "message", "description"}
	TitleKeys     = []string{"title", "headline", "name", "subject"}

	PostIDKeys          = []string{"id", "post_id", "postId", "uuid"}
	PostAuthorIDKeys    = []string{"author_id", "authorId", "user_id", "userId", "author.id", "user.id", "profile.id"}
	PostAuthorNameKeys  = []string{"author_name", "authorName", "author", "author.name", "author.username", "user.name", "user.username", "username"}
	PostDisplayNameKeys = []string{"display_name", "displayName", "author_display_name", "author.display_name", "author.displayName", "user.display_name", "author.full_name", "full_name"}
	PostAvatarColorKeys = []string{"avatar_color", "avatarColor", "author.avatar_color", "author.avatarColor", "user.avatar_color"}
	PostAvatarURLKeys   = []string{"author_avatar_url", "authorAvatarUrl", "avatar_url", "avatarUrl", "author.avatar_url", "author.avatarUrl", "user.avatar_url"}
	PostContentKeys     = []string{"content", "text", "body", "message", "caption"}
	PostImageKeys       = []string{"image_url", "imageUrl", "image", "photo_url", "photoUrl", "picture"}
	PostLikesKeys       = []string{"likes", "liked_by", "likedBy", "reactions"}
	PostLikesCountKeys  = []string{"likes_count", "likesCount", "like_count", "likeCount", "total_likes", "likes"}
	PostLikedByMeKeys   = []string{"liked_by_me", "likedByMe", "is_liked", "isLiked", "has_liked", "liked"}
	PostCommentsKeys    = []string{"comments", "recent_comments", "latest_comments"}
	PostCommentsCntKeys = []string{"comments_count", "commentsCount", "comment_count", "commentCount", "total_comments", "comments"}
	PostMediaKeys       = []string{"media", "attachments", "media_items", "mediaItems", "post_media"}

	LikeUserIDKeys = []string{"user_id", "userId", "profile_id", "profileId", "user.id", "profile.id", "id"}
	LikeNameKeys   = []string{"name", "display_name", "displayName", "full_name", "username", "user.name", "user.display_name", "profile.name", "profile.display_name"}
	LikeAvatarKeys = []string{"avatar_url", "avatarUrl", "user.avatar_url", "profile.avatar_url"}

	CommentIDKeys         = []string{"id", "comment_id", "commentId"}
	CommentAuthorIDKeys   = []string{"author_id", "authorId", "user_id", "userId", "author.id", "user.id"}
	CommentAuthorNameKeys = []string{"author_name", "authorName", "author", "author.name", "author.display_name", "user.name", "user.display_name", "username", "name"}
	CommentAvatarKeys     = []string{"author_avatar_url", "authorAvatarUrl", "avatar_url", "avatarUrl", "author.avatar_url", "user.avatar_url"}
	CommentTextKeys       = []string{"text", "content", "body", "comment", "message"}

	MediaTypeKeys   = []string{"media_type", "mediaType", "type", "mime_type", "mimeType", "content_type", "kind"}
	MediaURLKeys    = []string{"public_url", "publicUrl", "url", "src", "uri"}
	MediaBucketKeys = []string{"bucket", "bucket_id", "bucketId", "storage_bucket"}
	MediaPathKeys   = []string{"path", "storage_path", "storagePath", "file_path", "filePath", "object_path"}
	MediaWidthKeys  = []string{"width", "w"}
	MediaHeightKeys = []string{"height", "h"}

	OfficialIDKeys = []string{"id", "official_id", "officialId", "post_id"}

	SponsoredIDKeys     = []string{"id", "sponsored_id", "sponsoredId", "campaign_id"}
	SponsorNameKeys     = []string{"sponsor_name", "sponsorName", "sponsor", "sponsor.name", "partner_name", "partner", "brand"}
	SponsorStartKeys    = []string{"start_date", "startDate", "starts_at", "startsAt", "start_at"}
	SponsorEndKeys      = []string{"end_date", "endDate", "ends_at", "endsAt", "end_at"}
	SponsorPriorityKeys = []string{"priority", "weight", "rank"}

	EventNewsIDKeys       = []string{"id", "event_id", "news_id", "uuid"}
	EventNewsTypeKeys     = []string{"type", "item_type", "itemType", "content_type", "category"}
	EventNewsExcerptKeys  = []string{"excerpt", "summary", "description", "subtitle"}
	EventNewsContentKeys  = []string{"content", "body", "text"}
	EventNewsLocationKeys = []string{"location", "venue", "place", "address"}
	EventNewsStartKeys    = []string{"start_at", "startAt", "starts_at", "startsAt", "start_date", "event_date", "date"}
	EventNewsEndKeys      = []string{"end_at", "endAt", "ends_at", "endsAt", "end_date"}
	EventNewsExternalKeys = []string{"external_url", "externalUrl", "url", "link"}
	EventNewsTitleKeys    = []string{"title", "headline", "name"}
)

// Payload-level keys.
var (
	KindKeys = []string{"kind"}

	HomeFeedKeys   = []string{"items", "feed"}
	LegacyPosts    = []string{"posts"}
	LegacyOfficial = []string{"official_posts", "official"}
	LegacySponsor  = []string{"sponsored_items", "sponsored"}
	LegacyEvents   = []string{"event_news", "events_news"}

	EventsNewsKeys = []string{"items", "events_news", "event_news", "data", "results"}
	CommentsKeys   = []string{"comments", "items", "data", "results"}
	LikesKeys      = []string{"likes", "items", "data", "results"}
	UserPostsKeys  = []string{"posts", "items", "data", "results"}

	HasMoreKeys    = []string{"has_more", "hasMore", "pagination.has_more", "pagination.hasMore", "meta.has_more", "meta.hasMore"}
	TotalKeys      = []string{"total", "count", "total_posts", "totalPosts", "pagination.total", "meta.total"}
	NextOffsetKeys = []string{"next_offset", "nextOffset", "pagination.next_offset", "pagination.nextOffset", "meta.next_offset"}
	HomeTotalKeys  = []string{"total_posts", "totalPosts"}
)
