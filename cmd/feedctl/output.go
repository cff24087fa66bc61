package main

import (
	"encoding/json"
	"fmt"

	"socialfeed/internal/content"
	"socialfeed/internal/imageproc"
	"socialfeed/internal/model"
	"socialfeed/internal/notify"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printItems(items []model.Item) error {
	if a.jsonOut {
		return a.printJSON(items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(a.out, "No items.")
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(a.out, "%s\n\n", notify.FormatItem(it)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printPage(page *model.Page) error {
	if a.jsonOut {
		return a.printJSON(page)
	}
	if err := a.printItems(page.Items); err != nil {
		return err
	}
	return a.printMore(page.HasMore, page.NextOffset)
}

func (a *app) printComments(page *content.CommentPage) error {
	if a.jsonOut {
		return a.printJSON(page)
	}
	if len(page.Comments) == 0 {
		_, err := fmt.Fprintln(a.out, "No comments.")
		return err
	}
	for _, c := range page.Comments {
		if _, err := fmt.Fprintln(a.out, notify.FormatComment(c)); err != nil {
			return err
		}
	}
	return a.printMore(page.HasMore, page.NextOffset)
}

func (a *app) printLikes(page *content.LikePage) error {
	if a.jsonOut {
		return a.printJSON(page)
	}
	if len(page.Likes) == 0 {
		_, err := fmt.Fprintln(a.out, "No likes.")
		return err
	}
	for _, l := range page.Likes {
		if _, err := fmt.Fprintln(a.out, notify.FormatLike(l)); err != nil {
			return err
		}
	}
	return a.printMore(page.HasMore, page.NextOffset)
}

func (a *app) printResult(res imageproc.Result) error {
	if a.jsonOut {
		return a.printJSON(res)
	}
	_, err := fmt.Fprintf(a.out, "%s (%dx%d)\n", res.URI, res.Width, res.Height)
	return err
}

func (a *app) printMore(hasMore bool, next int) error {
	if !hasMore {
		return nil
	}
	_, err := fmt.Fprintf(a.out, "More available: --offset %d\n", next)
	return err
}
