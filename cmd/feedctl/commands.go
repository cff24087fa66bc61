package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"socialfeed/internal/filter"
	"socialfeed/internal/geometry"
	"socialfeed/internal/imageproc"
	"socialfeed/internal/model"
	"socialfeed/internal/notify"
	"socialfeed/internal/watcher"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "feedctl",
		Short:         "Browse and watch the community feed from the terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			a.jsonOut = jsonOut
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(
		homeCmd(a),
		eventsCmd(a),
		commentsCmd(a),
		likesCmd(a),
		userPostsCmd(a),
		newsCmd(a),
		cropCmd(a),
		watchCmd(a),
	)
	return rootCmd
}

func pageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", model.DefaultPageLimit, "Number of items to fetch")
	cmd.Flags().Int("offset", 0, "Number of items to skip")
}

func readPage(cmd *cobra.Command) (int, int, error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := cmd.Flags().GetInt("offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func homeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show the mixed home feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, offset, err := readPage(cmd)
			if err != nil {
				return err
			}
			page, err := a.content.HomeFeed(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("fetch home feed: %w", err)
			}
			return a.printPage(page)
		},
	}
	pageFlags(cmd)
	return cmd
}

func eventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show events and news",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, offset, err := readPage(cmd)
			if err != nil {
				return err
			}
			typ, err := cmd.Flags().GetString("type")
			if err != nil {
				return err
			}
			switch model.EventNewsType(typ) {
			case "", model.TypeEvent, model.TypeNews:
			default:
				return fmt.Errorf("invalid type %q: want event or news", typ)
			}
			page, err := a.content.EventsNews(cmd.Context(), limit, offset, model.EventNewsType(typ))
			if err != nil {
				return fmt.Errorf("fetch events: %w", err)
			}
			return a.printPage(page)
		},
	}
	pageFlags(cmd)
	cmd.Flags().String("type", "", "Only show event or news")
	return cmd
}

func commentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "Show the comments of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, offset, err := readPage(cmd)
			if err != nil {
				return err
			}
			page, err := a.content.PostComments(cmd.Context(), args[0], limit, offset)
			if err != nil {
				return fmt.Errorf("fetch comments: %w", err)
			}
			return a.printComments(page)
		},
	}
	pageFlags(cmd)
	return cmd
}

func likesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "likes <post-id>",
		Short: "Show who liked a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, offset, err := readPage(cmd)
			if err != nil {
				return err
			}
			page, err := a.content.PostLikes(cmd.Context(), args[0], limit, offset)
			if err != nil {
				return fmt.Errorf("fetch likes: %w", err)
			}
			return a.printLikes(page)
		},
	}
	pageFlags(cmd)
	return cmd
}

func userPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user-posts <user-id>",
		Short: "Show the posts of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, offset, err := readPage(cmd)
			if err != nil {
				return err
			}
			page, err := a.content.UserPosts(cmd.Context(), args[0], limit, offset)
			if err != nil {
				return fmt.Errorf("fetch user posts: %w", err)
			}
			return a.printPage(page)
		},
	}
	pageFlags(cmd)
	return cmd
}

func newsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "news <feed-url>",
		Short: "Show an external RSS or Atom feed as news items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.content.ExternalNews(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch news: %w", err)
			}
			return a.printItems(items)
		},
	}
}

func cropCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crop <source>",
		Short: "Crop an image to a frame and prepare it for upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			frameW, err := f.GetFloat64("frame-width")
			if err != nil {
				return err
			}
			frameH, err := f.GetFloat64("frame-height")
			if err != nil {
				return err
			}
			x, err := f.GetFloat64("x")
			if err != nil {
				return err
			}
			y, err := f.GetFloat64("y")
			if err != nil {
				return err
			}
			scale, err := f.GetFloat64("zoom")
			if err != nil {
				return err
			}
			maxLongSide, err := f.GetInt("max-long-side")
			if err != nil {
				return err
			}
			quality, err := f.GetFloat64("quality")
			if err != nil {
				return err
			}

			local := imageproc.NewLocalTransformer(a.cfg.ImageOutputDir)
			w, h, err := local.Size(args[0])
			if err != nil {
				return err
			}

			req := imageproc.Request{
				SourceURI:    args[0],
				SourceWidth:  w,
				SourceHeight: h,
				MaxLongSide:  maxLongSide,
				Quality:      quality,
			}
			if frameW > 0 && frameH > 0 {
				image := geometry.Size{Width: float64(w), Height: float64(h)}
				frame := geometry.Size{Width: frameW, Height: frameH}
				if scale <= 0 {
					scale = 1
				}
				scale *= geometry.FitScale(image, frame)
				t := geometry.ClampTranslationToFrame(geometry.Translation{X: x, Y: y}, image, frame, scale)
				rect := geometry.ComputeCropRect(image, frame, t, scale)
				req.Crop = &rect
			}

			res, err := imageproc.New(local, a.log).Process(cmd.Context(), req)
			if err != nil {
				var procErr *imageproc.ImageProcessingError
				if errors.As(err, &procErr) {
					a.log.Warn("image processing failed, keeping source", "source", args[0], "error", err)
					res = imageproc.Result{URI: args[0], Width: w, Height: h}
				} else {
					return err
				}
			}
			return a.printResult(res)
		},
	}
	cmd.Flags().Float64("frame-width", 0, "Width of the crop frame in display points")
	cmd.Flags().Float64("frame-height", 0, "Height of the crop frame in display points")
	cmd.Flags().Float64("x", 0, "Horizontal pan of the image inside the frame")
	cmd.Flags().Float64("y", 0, "Vertical pan of the image inside the frame")
	cmd.Flags().Float64("zoom", 1, "Zoom factor applied on top of the scale that fills the frame")
	cmd.Flags().Int("max-long-side", model.DefaultMaxLongSide, "Downscale so the longer side is at most this many pixels")
	cmd.Flags().Float64("quality", model.DefaultUploadQuality, "JPEG quality between 0 and 1")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the home feed and forward new items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			chatID, err := f.GetInt64("chat-id")
			if err != nil {
				return err
			}
			interval, err := f.GetDuration("interval")
			if err != nil {
				return err
			}
			retention, err := f.GetDuration("retention")
			if err != nil {
				return err
			}
			includePosts, err := f.GetBool("include-posts")
			if err != nil {
				return err
			}
			ruleArgs, err := f.GetStringArray("rule")
			if err != nil {
				return err
			}
			dryRun, err := f.GetBool("dry-run")
			if err != nil {
				return err
			}
			once, err := f.GetBool("once")
			if err != nil {
				return err
			}

			rules, err := filter.ParseRules(ruleArgs)
			if err != nil {
				return err
			}
			if chatID == 0 {
				chatID = a.cfg.TelegramChatID
			}
			if interval <= 0 {
				interval = a.cfg.WatchInterval
			}

			var sender notify.Sender
			switch {
			case dryRun:
				sender = notify.NewWriter(a.out)
			case a.cfg.TelegramBotToken != "" && chatID != 0:
				tg, err := notify.NewTelegram(a.cfg.TelegramBotToken, a.log)
				if err != nil {
					return err
				}
				sender = tg
			default:
				return errors.New("telegram is not configured: set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID or use --dry-run")
			}

			kinds := watcher.DefaultKinds
			if includePosts {
				kinds = append([]model.Kind{model.KindPost}, kinds...)
			}
			w := watcher.New(a.content, a.store, sender, watcher.Options{
				ChatID:    chatID,
				Interval:  interval,
				Kinds:     kinds,
				Rules:     rules,
				Retention: retention,
			}, a.log)

			if once {
				sent, err := w.Check(cmd.Context())
				if err != nil {
					return err
				}
				a.log.Info("check finished", "sent", sent)
				return nil
			}
			a.log.Info("watching home feed", "interval", interval, "rules", len(rules))
			w.Run(cmd.Context())
			return nil
		},
	}
	cmd.Flags().Int64("chat-id", 0, "Telegram chat to notify (defaults to TELEGRAM_CHAT_ID)")
	cmd.Flags().Duration("interval", 0, "Time between checks (defaults to WATCH_INTERVAL)")
	cmd.Flags().Duration("retention", 30*24*time.Hour, "Forget seen items older than this, 0 keeps them forever")
	cmd.Flags().Bool("include-posts", false, "Also forward user posts")
	cmd.Flags().StringArray("rule", nil, "Filter rule kind:[scope:]value, may be repeated")
	cmd.Flags().Bool("dry-run", false, "Print notifications instead of sending them")
	cmd.Flags().Bool("once", false, "Run a single check and exit")
	return cmd
}
