package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/atspi"
	"github.com/GNOME/gtk-sub066/internal/config"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/GNOME/gtk-sub066/internal/utils"
	"github.com/spf13/cobra"
)

const busAddressTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve <tree-file>",
	Short: "Publish a tree file on the accessibility bus",
	Long: `Build the accessible tree described by a YAML or KDL file and register it
with the AT-SPI registry. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().Bool("watch", false, "Rebuild the tree when the file changes")
}

func runServe(cmd *cobra.Command, args []string) {
	path := args[0]
	watch, _ := cmd.Flags().GetBool("watch")

	spec, err := a11y.LoadTreeFile(path)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Backend == config.BackendNone {
		log.Infof("[Serve] Accessibility backend disabled, nothing to do")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sandboxed := utils.InSandbox()
	if cfg.Sandboxed != nil {
		sandboxed = *cfg.Sandboxed
	}

	var session atspi.Bus
	if sandboxed {
		if session, err = atspi.ConnectSession(); err != nil {
			log.Warnf("[Serve] No session bus, event listeners will be assumed: %v", err)
		}
	}

	appID := cfg.AppID
	if appID == "" && sandboxed {
		appID, _ = utils.FlatpakAppID()
	}

	var addr string
	if cfg.Backend == config.BackendATSPI {
		addr = resolveBusAddress(ctx)
	}

	toplevels := a11y.NewToplevels()
	root := atspi.Open(atspi.RootOptions{
		BusAddress:       addr,
		SessionBus:       session,
		Sandboxed:        sandboxed,
		MinPortalVersion: cfg.PortalMinVersion,
		Toplevels:        toplevels,
		Backend:          cfg.Backend,
		AppID:            appID,
		ApplicationName:  cfg.ApplicationName,
		ProgramName:      programName(),
	})

	b := newBridge(root, toplevels)
	b.forwardToplevels(ctx)

	if err := b.load(spec); err != nil {
		root.Teardown()
		log.Fatalf("%v", err)
	}

	if watch {
		if err := b.watch(ctx, path); err != nil {
			log.Warnf("[Serve] Cannot watch %s: %v", path, err)
		}
	}

	log.Infof("[Serve] Serving %s at %s", path, root.BasePath())
	if err := root.Loop().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("[Serve] %v", err)
	}

	root.Loop().Drain()
	log.Infof("[Serve] Shutting down, %s", b.registration())
	b.close()
}

func resolveBusAddress(ctx context.Context) string {
	if cfg.BusAddress != "" {
		return cfg.BusAddress
	}

	ctx, cancel := context.WithTimeout(ctx, busAddressTimeout)
	defer cancel()

	addr, err := atspi.BusAddress(ctx)
	if err != nil {
		log.Errorf("[Serve] Unable to locate the accessibility bus: %v", err)
		return ""
	}
	return addr
}
