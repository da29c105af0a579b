// Command foodcli is a terminal front end for the food ordering client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Skotchmaster/food_client/internal/cart"
	"github.com/Skotchmaster/food_client/internal/catalog"
	"github.com/Skotchmaster/food_client/internal/credstore"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/internal/order"
	"github.com/Skotchmaster/food_client/internal/review"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apiclient"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/config"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

type app struct {
	out     io.Writer
	session *session.Manager
	catalog *catalog.Service
	carts   *cart.Flow
	orders  *order.Flow
	reviews *review.Service
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		printUsage(os.Stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage(os.Stderr)
		return 2
	}

	cfg := config.Load()
	if err := cfg.ValidateClient(); err != nil {
		alert(os.Stderr, err)
		return 1
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	store, err := credstore.Open(ctx, cfg.CredentialsPath)
	if err != nil {
		logger.Error("credstore_open_error", "path", cfg.CredentialsPath, "error", err)
		return 1
	}
	defer store.Close()

	pub, err := events.FromConfig(cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		logger.Error("events_init_error", "error", err)
		return 1
	}
	defer pub.Close()

	api := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.HTTPTimeout))
	sess := session.NewManager(api, store, pub)
	api.SetTokenSource(sess)
	sess.Bootstrap(ctx)

	carts := cart.NewFlow(api, sess, pub)
	a := &app{
		out:     os.Stdout,
		session: sess,
		catalog: catalog.NewService(api),
		carts:   carts,
		orders:  order.NewFlow(api, sess, carts, pub),
		reviews: review.NewService(api, sess),
	}

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: foodcli %s %s\n", args[0], cmd.usage)
			return 2
		}
		alert(os.Stderr, err)
		return 1
	}
	return 0
}

// alert prints err the way the user sees it: kind first, then the message.
func alert(w io.Writer, err error) {
	if e, ok := apierr.As(err); ok {
		fmt.Fprintf(w, "error [%s]: %s\n", e.Kind, e.Message)
		return
	}
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		fmt.Fprintln(w, "error [unauthorized]: please log in first")
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: foodcli <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].usage)
	}
}
