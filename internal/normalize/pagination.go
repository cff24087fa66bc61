package normalize

// HasMore decides whether another page follows, trying in order: an
// explicit has_more flag (only true when this page was non-empty), a total
// count, a next offset, and finally whether the page came back full.
func HasMore(payload any, limit, offset, received int) bool {
	rec, _ := Object(payload)
	if b, ok := FirstBool(rec, HasMoreKeys); ok {
		return b && received > 0
	}
	if total, ok := FirstFloat(rec, TotalKeys); ok {
		return float64(offset+received) < total
	}
	if next, ok := FirstFloat(rec, NextOffsetKeys); ok {
		return next > float64(offset)
	}
	return received == limit
}

// HomeFeedHasMore is HasMore for the home feed. A numeric totalPosts is
// compared against offset+limit, the requested page size, rather than the
// number of items received.
func HomeFeedHasMore(payload any, limit, offset, received int) bool {
	rec, _ := Object(payload)
	if total, ok := FirstFloat(rec, HomeTotalKeys); ok {
		return float64(offset+limit) < total
	}
	return HasMore(payload, limit, offset, received)
}

// NextOffset returns the offset of the following page: the server's
// next_offset when it moves forward, otherwise offset+received.
func NextOffset(payload any, offset, received int) int {
	rec, _ := Object(payload)
	if next, ok := FirstInt(rec, NextOffsetKeys); ok && next > offset {
		return next
	}
	return offset + received
}
