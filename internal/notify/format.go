package notify

import (
	"fmt"
	"strings"
	"time"

	"socialfeed/internal/model"
)

const maxBodyLen = 300

// FormatItem renders a feed item as a plain-text message.
func FormatItem(it model.Item) string {
	switch {
	case it.Official != nil:
		return formatOfficial(it.Official)
	case it.Sponsored != nil:
		return formatSponsored(it.Sponsored)
	case it.EventNews != nil:
		return formatEventNews(it.EventNews)
	case it.Post != nil:
		return formatPost(it.Post)
	}
	return ""
}

func formatOfficial(o *model.Official) string {
	var b strings.Builder
	header := "[" + model.OfficialTitle + "]"
	if o.Pinned {
		header += " *"
	}
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(o.Title)
	section(&b, truncate(o.Body, maxBodyLen))
	section(&b, deref(o.TargetURL))
	return b.String()
}

func formatSponsored(s *model.Sponsored) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", s.SponsorName)
	if s.Title != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Title)
	}
	section(&b, truncate(s.Body, maxBodyLen))
	section(&b, deref(s.TargetURL))
	return b.String()
}

func formatEventNews(e *model.EventNews) string {
	var b strings.Builder
	label := "News"
	if e.Type == model.TypeEvent {
		label = "Evento"
	}
	fmt.Fprintf(&b, "[%s]\n\n%s", label, e.Title)

	var when []string
	if e.StartsAt != nil {
		when = append(when, e.StartsAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	if e.Location != nil {
		when = append(when, *e.Location)
	}
	if len(when) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(when, ", "))
	}

	text := e.Excerpt
	if text == "" || text == e.Title {
		text = e.Content
	}
	if text != e.Title {
		section(&b, truncate(text, maxBodyLen))
	}
	section(&b, deref(e.ExternalURL))
	return b.String()
}

func formatPost(p *model.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", p.DisplayName, p.TimeLabel)
	section(&b, truncate(p.Content, maxBodyLen))
	if p.ImageURL != nil {
		section(&b, *p.ImageURL)
	}
	fmt.Fprintf(&b, "\n\n%d likes, %d comments", p.LikesCount, p.CommentsCount)
	return b.String()
}

// FormatComment renders a comment as a single line.
func FormatComment(c model.CommentEntry) string {
	line := fmt.Sprintf("%s [%s]: %s", c.AuthorName, c.Initials, c.Text)
	if c.CreatedAt != nil {
		line += " (" + c.CreatedAt.UTC().Format(time.DateTime) + ")"
	}
	return line
}

// FormatLike renders a like as a single line.
func FormatLike(l model.LikeEntry) string {
	return fmt.Sprintf("%s [%s]", l.Name, l.Initials)
}

func section(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
