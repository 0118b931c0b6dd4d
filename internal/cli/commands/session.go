package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metaview-labs/metaview/internal/auth"
	"github.com/metaview-labs/metaview/internal/cli/output"
	"github.com/metaview-labs/metaview/internal/session"
	"github.com/spf13/cobra"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Provision and inspect stored shop sessions",
		Long: `Manage the sessions table. Each row holds a shop's Admin API access
token; the UI and the list/show commands use the shop's offline session.`,
	}

	cmd.AddCommand(newSessionPutCommand())
	cmd.AddCommand(newSessionGetCommand())
	cmd.AddCommand(newSessionDeleteCommand())
	cmd.AddCommand(newSessionListCommand())

	return cmd
}

type sessionPutOptions struct {
	token     string
	scope     string
	online    bool
	expiresIn time.Duration
	userID    int64
}

func newSessionPutCommand() *cobra.Command {
	var opts sessionPutOptions

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store an access token for a shop",
		Long: `Store an Admin API access token for the shop selected with --shop.
Offline sessions are stored as offline_{shop}; online sessions as
{shop}_{user id}.`,
		Example: `  # Offline token for a custom app
  metaview session put --shop demo.myshopify.com --token shpat_xxx

  # Online token that expires in a day
  metaview session put --shop demo.myshopify.com --token shpua_xxx --online --expires-in 24h --user-id 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSessionPut(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "Admin API access token")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Granted scopes, comma separated (default: configured scopes)")
	cmd.Flags().BoolVar(&opts.online, "online", false, "Store as an online (per-user) session")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", 0, "Expire the session after this duration")
	cmd.Flags().Int64Var(&opts.userID, "user-id", 0, "User id for online sessions")

	return cmd
}

func runSessionPut(cmd *cobra.Command, opts sessionPutOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	shop := strings.ToLower(strings.TrimSpace(cmdCtx.Cfg.Shopify.Shop))
	if !auth.ValidShop(shop) {
		return fmt.Errorf("%w: %q", auth.ErrInvalidShop, shop)
	}
	if opts.token == "" {
		return errors.New("--token is required")
	}

	scope := opts.scope
	if scope == "" {
		scope = strings.Join(cmdCtx.Cfg.Shopify.Scopes, ",")
	}

	sess := &session.Session{
		ID:          session.OfflineID(shop),
		Shop:        shop,
		State:       uuid.NewString(),
		IsOnline:    opts.online,
		Scope:       scope,
		AccessToken: opts.token,
	}
	if opts.online {
		if opts.userID == 0 {
			return errors.New("--user-id is required for online sessions")
		}
		sess.ID = fmt.Sprintf("%s_%d", shop, opts.userID)
		sess.UserID = &opts.userID
	}
	if opts.expiresIn > 0 {
		expires := time.Now().Add(opts.expiresIn).UTC().Truncate(time.Second)
		sess.Expires = &expires
	}

	store, err := cmdCtx.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Store(ctx, sess); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	cmdCtx.Logger.Debug("stored session", "id", sess.ID, "shop", shop)
	cmdCtx.Renderer.Success("Stored session " + sess.ID)
	return nil
}

func newSessionGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			ctx := cmd.Context()

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			return renderSessions(cmdCtx.Renderer, []*session.Session{sess})
		},
	}
}

func newSessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete stored sessions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			ctx := cmd.Context()

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				err = store.Delete(ctx, args[0])
			} else {
				err = store.DeleteMany(ctx, args)
			}
			if err != nil {
				return fmt.Errorf("failed to delete sessions: %w", err)
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Deleted %d session(s)", len(args)))
			return nil
		},
	}
}

type sessionListOptions struct {
	shop  string
	token string
	scope string
}

func newSessionListCommand() *cobra.Command {
	var opts sessionListOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored sessions",
		Long: `List stored sessions. At most one filter applies: --filter-shop, then
--filter-token, then --filter-scope. Access tokens are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			ctx := cmd.Context()

			store, err := cmdCtx.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var found []*session.Session
			switch {
			case opts.shop != "":
				found, err = store.FindByShop(ctx, strings.ToLower(opts.shop))
			case opts.token != "":
				found, err = store.FindByAccessToken(ctx, opts.token)
			case opts.scope != "":
				found, err = store.FindByScope(ctx, opts.scope)
			default:
				found, err = store.List(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			return renderSessions(cmdCtx.Renderer, found)
		},
	}

	cmd.Flags().StringVar(&opts.shop, "filter-shop", "", "Only sessions for this shop")
	cmd.Flags().StringVar(&opts.token, "filter-token", "", "Only sessions with this access token")
	cmd.Flags().StringVar(&opts.scope, "filter-scope", "", "Only sessions with exactly this scope string")

	return cmd
}

// sessionView is the printable form of a session.
type sessionView struct {
	ID          string     `json:"id"`
	Shop        string     `json:"shop"`
	IsOnline    bool       `json:"isOnline"`
	Scope       string     `json:"scope"`
	Expires     *time.Time `json:"expires,omitempty"`
	AccessToken string     `json:"accessToken"`
	UserID      *int64     `json:"userId,omitempty"`
}

func newSessionView(s *session.Session) sessionView {
	return sessionView{
		ID:          s.ID,
		Shop:        s.Shop,
		IsOnline:    s.IsOnline,
		Scope:       s.Scope,
		Expires:     s.Expires,
		AccessToken: maskToken(s.AccessToken),
		UserID:      s.UserID,
	}
}

func renderSessions(r *output.Renderer, sessions []*session.Session) error {
	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = newSessionView(s)
	}

	if r.EffectiveMode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(views) == 0 {
		r.Println("No sessions found")
		return nil
	}

	rows := make([][]string, len(views))
	for i, v := range views {
		expires := "never"
		if v.Expires != nil {
			expires = v.Expires.UTC().Format(time.RFC3339)
		}
		kind := "offline"
		if v.IsOnline {
			kind = "online"
		}
		rows[i] = []string{v.ID, v.Shop, kind, v.Scope, expires, v.AccessToken}
	}
	r.Table([]string{"ID", "Shop", "Kind", "Scope", "Expires", "Token"}, rows)
	return nil
}

// maskToken keeps a token's prefix and last four characters.
func maskToken(token string) string {
	if len(token) <= 10 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + strings.Repeat("*", len(token)-10) + token[len(token)-4:]
}
