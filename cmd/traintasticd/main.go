// Command traintasticd is the layout control server: it loads a world
// from a persistence file, starts UDP discovery and the client session
// listener, and runs until interrupted, saving the world back out on
// the way down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"traintastic/net/discovery"
	"traintastic/net/session"
	"traintastic/object"
	"traintastic/tlog"
	"traintastic/world"
)

var (
	dataPath      string
	listenAddress string
	displayName   string
	user          string
	pass          string
	verbose       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "traintasticd",
	Short:         "Model railway layout control server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.Flags().StringVarP(&dataPath, "data", "d", "world.yaml", "world persistence file")
	rootCmd.Flags().StringVarP(&listenAddress, "listen", "l", ":5690", "client session listen address")
	rootCmd.Flags().StringVar(&displayName, "name", "layout", "display name advertised over discovery")
	rootCmd.Flags().StringVar(&user, "user", "admin", "client session username")
	rootCmd.Flags().StringVar(&pass, "pass", "admin", "client session password")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

type staticAuth struct {
	user, pass string
}

func (a staticAuth) Authenticate(user, pass string) bool {
	return user == a.user && pass == a.pass
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := tlog.New()
	if verbose {
		_ = logger.SetLevel("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := object.NewRegistry()
	w := world.New(registry)

	if err := w.Load(dataPath); err != nil {
		return fmt.Errorf("loading %s: %w", dataPath, err)
	}
	logger.Debugf("loaded world from %s", dataPath)

	responder, err := discovery.NewResponder(displayName)
	if err != nil {
		return fmt.Errorf("starting discovery responder: %w", err)
	}
	defer responder.Stop()

	auth := staticAuth{user: user, pass: pass}
	listener, err := session.Listen(listenAddress, auth, func(s *session.Session) {
		logger.Debugf("session established: state=%v", s.State())
	})
	if err != nil {
		return fmt.Errorf("starting session listener on %s: %w", listenAddress, err)
	}
	defer listener.Close()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		w.Run(gctx)
		return nil
	})

	logger.Message(tlog.LogMessage{ID: "server.started", Args: []any{listenAddress, displayName}})

	<-gctx.Done()
	w.Stop()
	_ = group.Wait()

	if err := w.Save(dataPath); err != nil {
		return fmt.Errorf("saving %s: %w", dataPath, err)
	}
	logger.Debugf("saved world to %s", dataPath)
	return nil
}
