package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/naveenspark/stays/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	configPath string
	debug      bool
	bookable   bool
	mine       bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs splits args into the subcommand and global flags. Flags may
// appear before or after the subcommand.
func parseArgs(args []string) (string, options, error) {
	var opts options
	var showVersion bool

	fs := pflag.NewFlagSet("stays", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&opts.configPath, "config", "c", "", "config file")
	fs.BoolVar(&opts.debug, "debug", false, "development logging at debug level")
	fs.BoolVar(&opts.bookable, "bookable", false, "only places you can book")
	fs.BoolVar(&opts.mine, "mine", false, "only your own offers")
	fs.BoolVarP(&showVersion, "version", "v", false, "print the version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return "help", opts, nil
		}
		return "", opts, err
	}
	if showVersion {
		return "version", opts, nil
	}
	if fs.NArg() > 1 {
		return "", opts, fmt.Errorf("unexpected argument %q", fs.Arg(1))
	}
	if opts.bookable && opts.mine {
		return "", opts, errors.New("--bookable and --mine cannot be combined")
	}
	return fs.Arg(0), opts, nil
}

func run(args []string) error {
	cmd, opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	switch cmd {
	case "version":
		fmt.Println("stays " + version)
		return nil
	case "help":
		printHelp(os.Stdout)
		return nil
	case "config":
		return runConfig(opts, os.Stdout)
	case "", "login", "signup", "logout", "whoami", "places", "bookings":
	default:
		return fmt.Errorf("unknown command %q, run stays help", cmd)
	}

	// Report a missing setting plainly instead of as a failed fx graph.
	if _, err := loadConfig(opts); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var e env
	app := fx.New(appOptions(opts), fx.Invoke(func(d env) { e = d }))
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		app.Stop(stopCtx) //nolint:errcheck // exiting anyway
	}()

	switch cmd {
	case "login":
		return runAuth(ctx, e, false, newPrompter(os.Stdin, os.Stdout))
	case "signup":
		return runAuth(ctx, e, true, newPrompter(os.Stdin, os.Stdout))
	case "logout":
		return runLogout(ctx, e, os.Stdout)
	case "whoami":
		return runWhoami(ctx, e, os.Stdout)
	case "places":
		return runPlaces(ctx, e, opts, os.Stdout)
	case "bookings":
		return runBookings(ctx, e, os.Stdout)
	}
	return runTUI(ctx, e)
}

func runTUI(ctx context.Context, e env) error {
	app := tui.NewApp(tui.Deps{
		Context:  ctx,
		Session:  e.Store,
		Sessions: e.Manager,
		Gate:     e.Gate,
		Places:   e.Places,
		Bookings: e.Bookings,
		Location: e.Resolver,
		Log:      e.Log,
		Version:  version,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `stays - find and book places to stay

Usage:
  stays [command] [flags]

Commands:
  (none)     open the terminal app
  login      sign in with email and password
  signup     create an account
  logout     end the session
  whoami     show the signed-in account
  places     list offered places (--bookable, --mine)
  bookings   list your bookings
  config     show the effective configuration
  version    print the version

Flags:
  -c, --config string   config file (default $STAYS_CONFIG or ~/.stays/config.yaml)
      --debug           development logging at debug level
`)
}
