package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/journify/internal/client/config"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/spf13/cobra"
)

// AppFactory builds the App once configuration is known.
type AppFactory func(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error)

func defaultFactory(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, "text")
	return NewApp(ctx, c, logger, in, out)
}

type root struct {
	args    []string
	in      io.Reader
	out     io.Writer
	factory AppFactory
	app     *App
}

// NewRootCmd builds the command tree for args. The persistent flags mirror
// the ones config.LoadConfig reads so cobra accepts them.
func NewRootCmd(args []string, in io.Reader, out io.Writer, factory AppFactory) *cobra.Command {
	if factory == nil {
		factory = defaultFactory
	}
	r := &root{args: args, in: in, out: out, factory: factory}

	cmd := &cobra.Command{
		Use:   "journify",
		Short: "Journify - share stories, even offline",
		Long: `Journify keeps your stories on this device first and sends them to the
story API when it can be reached. Stories written offline are queued and
sent on the next reconnect.`,
		PersistentPreRunE: r.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)

	pf := cmd.PersistentFlags()
	pf.StringP(config.FlagConfig, config.FlagConfigAbr, "", "JSON config file")
	pf.String(config.FlagAPI, "", "story API base url")
	pf.String(config.FlagDB, "", "SQLite database path")
	pf.String(config.FlagPhotos, "", "photo directory")
	pf.String(config.FlagRelay, "", "relay host:port")
	pf.String(config.FlagPush, "", "public push intake url")
	pf.Int(config.FlagInterval, 0, "online check interval (in seconds)")
	pf.String(config.FlagLogLevel, "", "debug, info, warn or error")

	cmd.AddCommand(
		r.registerCmd(),
		r.loginCmd(),
		r.logoutCmd(),
		r.statusCmd(),
		r.storyCmd(),
		r.favoriteCmd(),
		r.notificationsCmd(),
		r.watchCmd(),
		r.shellCmd(),
	)
	r.closeAfterRun(cmd)
	return cmd
}

func (r *root) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(r.args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app, err := r.factory(cmd.Context(), cfg, r.in, r.out)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// closeAfterRun makes every runnable command close the App when it returns,
// including on error, where cobra skips post-run hooks.
func (r *root) closeAfterRun(c *cobra.Command) {
	for _, sub := range c.Commands() {
		r.closeAfterRun(sub)
	}
	if c.RunE == nil {
		return
	}
	run := c.RunE
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if r.app != nil {
			err = errors.Join(err, r.app.Close())
			r.app = nil
		}
		return err
	}
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Args[1:], os.Stdin, os.Stdout, nil).ExecuteContext(ctx)
}

func (r *root) registerCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Register(cmd.Context(), name, email, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func (r *root) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in, offline if the API cannot be reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func (r *root) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and the offline credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Logout(cmd.Context())
		},
	}
}

func (r *root) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show login, connectivity and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Status(cmd.Context())
		},
	}
}

func (r *root) storyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "story",
		Aliases: []string{"stories"},
		Short:   "Add, list and sync stories",
	}

	var in addStoryInput
	add := &cobra.Command{
		Use:   "add [description]",
		Short: "Save a story and send it when online",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.Description = args[0]
			}
			return r.app.AddStory(cmd.Context(), in)
		},
	}
	add.Flags().StringVar(&in.Photo, "photo", "", "path to a photo")
	add.Flags().StringVar(&in.Lat, "lat", "", "latitude")
	add.Flags().StringVar(&in.Lon, "lon", "", "longitude")

	var withLocation, local bool
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stories, pending ones first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.ListStories(cmd.Context(), withLocation, local)
		},
	}
	list.Flags().BoolVar(&withLocation, "location", false, "only stories with a location")
	list.Flags().BoolVar(&local, "local", false, "only stories saved on this device")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a story saved on this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.ShowStory(cmd.Context(), args[0])
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a story from this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.DeleteStory(cmd.Context(), args[0])
		},
	}

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Send queued stories now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.SyncNow(cmd.Context())
		},
	}

	cmd.AddCommand(add, list, show, del, sync)
	return cmd
}

func (r *root) favoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorite",
		Aliases: []string{"fav"},
		Short:   "Manage favorite stories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id>",
			Short: "Mark a story as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.app.AddFavorite(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Unmark a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.app.RemoveFavorite(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flip the favorite mark",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.app.ToggleFavorite(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.app.ListFavorites(cmd.Context())
			},
		},
	)
	return cmd
}

func (r *root) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "Deferred notifications and push subscription",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notifications received while no client was active",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.app.ListNotifications(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Show notifications not yet shown",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.app.ReconcileNotifications(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "subscribe",
			Short: "Register this device for push notifications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.app.Subscribe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "unsubscribe",
			Short: "Stop push notifications for this device",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.app.Unsubscribe(cmd.Context())
			},
		},
	)
	return cmd
}

func (r *root) watchCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay connected: sync on reconnect and show relay messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Watch(cmd.Context(), url)
		},
	}
	cmd.Flags().StringVar(&url, "url", "/", "page this client shows; notification clicks for it focus this client")
	return cmd
}

func (r *root) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Shell(cmd.Context())
		},
	}
}
