package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bcnelson/flickrkit/internal/callback"
	"github.com/bcnelson/flickrkit/internal/config"
	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/flickr"
	"github.com/bcnelson/flickrkit/internal/logging"
	"github.com/bcnelson/flickrkit/internal/service"
	"github.com/bcnelson/flickrkit/internal/storage"
	"github.com/bcnelson/flickrkit/internal/storage/sql"
	"github.com/bcnelson/flickrkit/internal/transport"
	"github.com/bcnelson/flickrkit/internal/validation"
	"go.uber.org/zap"
)

// Placeholder credentials used with the file shim when none are configured.
const (
	shimAPIKey = "0000000000000000"
	shimSecret = "0000000000000000"
)

const usage = `usage: flickrauth <command> [args]

commands:
  desktop [perms]   run the desktop handshake (perms: read, write, delete)
  mini <code>       exchange a mini token such as 123-456-789
  check             validate the stored token
  tokens            list stored tokens
  serve             run the web login callback server
  sets [user]       list photosets of user, or of the stored session
  counts <date>...  photo counts between consecutive YYYY-MM-DD dates
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "flickrauth: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	client *flickr.Client
	store  storage.TokenStore
	tokens *service.TokenService
	out    io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("flickrauth", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { fmt.Fprint(stdout, usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]

	a, err := newApp(stdout)
	if err != nil {
		return err
	}
	defer a.close()

	switch cmd {
	case "desktop":
		return a.desktop(ctx, cmdArgs, stdin)
	case "mini":
		return a.mini(ctx, cmdArgs)
	case "check":
		return a.check(ctx)
	case "tokens":
		return a.listTokens(ctx)
	case "serve":
		return a.serve(ctx)
	case "sets":
		return a.sets(ctx, cmdArgs)
	case "counts":
		return a.counts(ctx, cmdArgs)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newApp(out io.Writer) (*app, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}

	// Initialize storage
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	// Initialize transport (or file shim for testing)
	apiKey, secret := cfg.Flickr.APIKey, cfg.Flickr.SharedSecret
	var tr transport.Transport
	if cfg.UseFileShim() {
		logger.Info("using file shim for remote API", zap.String("dir", cfg.Flickr.FileShim))
		tr = transport.NewFileShim(cfg.Flickr.FileShim, logger)
		if apiKey == "" {
			apiKey, secret = shimAPIKey, shimSecret
		}
	} else {
		tr = transport.NewHTTP(cfg.Flickr.RESTURL, cfg.Flickr.HTTPTimeout)
	}

	creds := domain.NewCredentials(apiKey, secret)
	if err := validation.ValidateCredentials(creds); err != nil {
		logger.Warn("credentials look malformed", zap.Error(err))
	}

	client := flickr.New(creds, tr,
		flickr.WithLogger(logger),
		flickr.WithAuthURL(cfg.Flickr.AuthURL),
		flickr.WithLenientParsing(cfg.Flickr.LenientParsing))

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  store,
		tokens: service.NewTokenService(store, client, logger),
		out:    out,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func permArg(args []string) (domain.Permission, error) {
	if len(args) == 0 {
		return domain.PermissionRead, nil
	}
	return validation.ValidatePermission(args[0])
}

func (a *app) printAuth(auth *domain.Auth) {
	fmt.Fprintf(a.out, "authenticated as %s (%s) with %s permission\n",
		auth.User.Username, auth.User.ID, auth.Permissions)
}

func (a *app) desktop(ctx context.Context, args []string, stdin io.Reader) error {
	perm, err := permArg(args)
	if err != nil {
		return err
	}

	frob, loginURL, err := a.tokens.BeginDesktop(ctx, perm)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "open this URL and approve access, then press Enter:\n%s\n", loginURL)

	if _, err := bufio.NewReader(stdin).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("waiting for confirmation: %w", err)
	}

	auth, err := a.tokens.CompleteFrob(ctx, frob)
	if err != nil {
		return err
	}
	a.printAuth(auth)
	return nil
}

func (a *app) mini(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("mini requires exactly one code")
	}
	auth, err := a.tokens.CompleteMiniToken(ctx, args[0])
	if err != nil {
		return err
	}
	a.printAuth(auth)
	return nil
}

func (a *app) check(ctx context.Context) error {
	auth, err := a.tokens.Restore(ctx)
	if err != nil {
		return err
	}
	a.printAuth(auth)
	return nil
}

func (a *app) listTokens(ctx context.Context) error {
	tokens, err := a.tokens.Tokens(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tPERMS\tCREATED\tCHECKED")
	for _, t := range tokens {
		checked := "never"
		if t.CheckedAt != nil {
			checked = t.CheckedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Username, t.Permissions, t.CreatedAt.Format(time.RFC3339), checked)
	}
	return w.Flush()
}

func (a *app) serve(ctx context.Context) error {
	router := callback.NewRouter(a.tokens, a.logger)
	fmt.Fprintf(a.out, "visit http://%s/auth/login?perms=read to log in\n", a.cfg.Callback.Addr())
	return callback.Serve(ctx, a.cfg.Callback.Addr(), router, a.logger)
}

func (a *app) sets(ctx context.Context, args []string) error {
	userID := ""
	if len(args) > 0 {
		userID = args[0]
	} else if _, err := a.tokens.Restore(ctx); err != nil {
		return err
	}

	sets, err := a.client.PhotoSetsGetList(ctx, userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPHOTOS\tTITLE")
	for _, s := range sets.PhotoSets {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.ID, s.NumberOfPhotos, s.Title)
	}
	return w.Flush()
}

func parseDates(args []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(args))
	for _, arg := range args {
		d, err := time.Parse(time.DateOnly, arg)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, arg)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func (a *app) counts(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("counts requires at least two dates")
	}
	dates, err := parseDates(args)
	if err != nil {
		return err
	}
	if _, err := a.tokens.Restore(ctx); err != nil {
		return err
	}

	counts, err := a.client.PhotosGetCounts(ctx, dates, nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tTO\tCOUNT")
	for _, c := range counts.Counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.FromDate.Format(time.DateOnly), c.ToDate.Format(time.DateOnly), c.Count)
	}
	return w.Flush()
}
