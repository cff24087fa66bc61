package normalize

import "socialfeed/internal/model"

// Records extracts the record array from a payload that is either a bare
// JSON array or an object wrapping it under one of keys. A nested "data"
// object is searched as well.
func Records(payload any, keys ...string) []any {
	switch p := payload.(type) {
	case []any:
		return p
	case map[string]any:
		if arr, ok := FirstArray(p, keys); ok {
			return arr
		}
		if data, ok := Object(p["data"]); ok {
			if arr, ok := FirstArray(data, keys); ok {
				return arr
			}
		}
	}
	return nil
}

// PostItem wraps Post into a feed item.
func (n *Normalizer) PostItem(raw any) (model.Item, bool) {
	p, ok := n.Post(raw)
	if !ok {
		return model.Item{}, false
	}
	return model.Item{Kind: model.KindPost, Post: &p}, true
}

// OfficialItem wraps Official into a feed item.
func (n *Normalizer) OfficialItem(raw any) (model.Item, bool) {
	o, ok := n.Official(raw)
	if !ok {
		return model.Item{}, false
	}
	return model.Item{Kind: model.KindOfficial, Official: &o}, true
}

// SponsoredItem wraps Sponsored into a feed item.
func (n *Normalizer) SponsoredItem(raw any) (model.Item, bool) {
	s, ok := n.Sponsored(raw)
	if !ok {
		return model.Item{}, false
	}
	return model.Item{Kind: model.KindSponsored, Sponsored: &s}, true
}

// EventNewsItem wraps EventNews into a feed item.
func (n *Normalizer) EventNewsItem(raw any) (model.Item, bool) {
	e, ok := n.EventNews(raw)
	if !ok {
		return model.Item{}, false
	}
	return model.Item{Kind: model.KindEventNews, EventNews: &e}, true
}

// FeedItem dispatches a unified home feed record on its kind. Records
// without a recognized kind are posts, read from the nested "post" object
// when present.
func (n *Normalizer) FeedItem(raw any) (model.Item, bool) {
	rec, ok := Object(raw)
	if !ok {
		return model.Item{}, false
	}
	kind, _ := String(rec, KindKeys)
	switch model.Kind(kind) {
	case model.KindOfficial:
		return n.OfficialItem(payloadOf(rec, "official", "data"))
	case model.KindSponsored:
		return n.SponsoredItem(payloadOf(rec, "sponsored", "data"))
	case model.KindEventNews:
		return n.EventNewsItem(payloadOf(rec, "event_news", "item", "data"))
	default:
		return n.PostItem(payloadOf(rec, "post"))
	}
}

func payloadOf(rec Record, keys ...string) Record {
	if inner, ok := FirstObject(rec, keys); ok {
		return inner
	}
	return rec
}

// Items maps raw records through fn, keeping only the accepted ones in
// their original order.
func Items(raw []any, fn func(any) (model.Item, bool)) []model.Item {
	out := make([]model.Item, 0, len(raw))
	for _, r := range raw {
		if it, ok := fn(r); ok {
			out = append(out, it)
		}
	}
	return out
}

// HomeFeed normalizes a home feed payload. When the unified items array
// yields nothing, the legacy per-kind arrays are read and concatenated in
// the order posts, official, sponsored, event/news.
func (n *Normalizer) HomeFeed(payload any) []model.Item {
	if items := Items(Records(payload, HomeFeedKeys...), n.FeedItem); len(items) > 0 {
		return items
	}
	root, ok := Object(payload)
	if !ok {
		return []model.Item{}
	}

	var out []model.Item
	out = append(out, Items(arrayOf(root, LegacyPosts), n.PostItem)...)
	out = append(out, Items(arrayOf(root, LegacyOfficial), n.OfficialItem)...)
	out = append(out, Items(arrayOf(root, LegacySponsor), n.SponsoredItem)...)
	out = append(out, Items(arrayOf(root, LegacyEvents), n.EventNewsItem)...)
	return nonNil(out)
}

func arrayOf(rec Record, keys []string) []any {
	arr, _ := FirstArray(rec, keys)
	return arr
}
