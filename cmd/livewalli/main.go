package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/Montazar1375/LiveWalli/internal/autostart"
	"github.com/Montazar1375/LiveWalli/internal/codec"
	"github.com/Montazar1375/LiveWalli/internal/config"
	"github.com/Montazar1375/LiveWalli/internal/ipc"
	"github.com/Montazar1375/LiveWalli/internal/manager"
	"github.com/Montazar1375/LiveWalli/internal/platform"
	"github.com/Montazar1375/LiveWalli/internal/player"
	"github.com/Montazar1375/LiveWalli/internal/power"
	"github.com/Montazar1375/LiveWalli/internal/runtimepath"
	"github.com/Montazar1375/LiveWalli/internal/store"
	"github.com/Montazar1375/LiveWalli/internal/surface"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: livewalli daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: livewalli daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "clear":
		os.Exit(runClear(os.Args[2:]))
	case "scale":
		os.Exit(runScale(os.Args[2:]))
	case "pause":
		os.Exit(runPause(os.Args[2:]))
	case "resume":
		os.Exit(runResume(os.Args[2:]))
	case "power":
		os.Exit(runPower(os.Args[2:]))
	case "recent":
		os.Exit(runRecent(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "autostart":
		os.Exit(runAutostart(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: livewalli <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the wallpaper engine (foreground)")
	fmt.Fprintln(w, "  status              Show engine status")
	fmt.Fprintln(w, "  monitors            List connected displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  set <display> <file>    Set a video wallpaper on a display")
	fmt.Fprintln(w, "  clear <display>         Remove a display's wallpaper")
	fmt.Fprintln(w, "  scale <display> <mode>  Set scale mode (fill, fit, stretch, center)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pause               Pause playback on all displays")
	fmt.Fprintln(w, "  resume              Resume playback on all displays")
	fmt.Fprintln(w, "  power on|off        Only play while on external power")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  recent              List recently used wallpapers")
	fmt.Fprintln(w, "  check <file>        Check whether a file is playable")
	fmt.Fprintln(w, "  autostart           Manage the login autostart entry")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'livewalli <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	storePath, err := store.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to resolve wallpaper store path: %v", err)
	}
	st := store.New(storePath, cfg.RecentMax)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	playerSocketDir, err := runtimepath.PlayerSocketDir()
	if err != nil {
		log.Fatalf("Failed to resolve player socket directory: %v", err)
	}

	playerFactory := player.NewMPVFactory(player.Options{
		BinPath:   cfg.MpvPath,
		ExtraArgs: cfg.MpvArgs,
		SocketDir: playerSocketDir,
		Logger:    logger,
	})

	surfaceFactory := func(d platform.Display, mode surface.Mode) (manager.Surface, error) {
		win, err := backend.CreateWallpaperWindow(d.Bounds)
		if err != nil {
			return nil, fmt.Errorf("failed to create wallpaper window: %w", err)
		}
		return surface.New(win, d.Bounds, mode, playerFactory, logger), nil
	}

	mgr := manager.New(backend, power.NewSource(), st, surfaceFactory, logger)
	if err := mgr.Start(); err != nil {
		// Surfaces catch up on the next tick; only log.
		logger.Error("initial reconciliation failed", "error", err)
	}

	ipcServer, err := ipc.NewServer(mgr, st)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor hotplug triggers an immediate pass instead of waiting for
	// the next tick.
	if err := backend.WatchScreenChanges(ctx, logger, func() {
		if err := mgr.Reconcile(); err != nil {
			logger.Error("screen change reconciliation failed", "error", err)
		}
	}); err != nil {
		logger.Warn("screen change notifications unavailable", "error", err)
	}

	go mgr.Run(ctx, cfg.TickInterval())

	logger.Info("livewalli daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
	ipcServer.Stop()
	mgr.Stop()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// stdoutIsTerminal decides between human and machine output.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show engine status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut || !stdoutIsTerminal() {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("daemon_running:       %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds:       %d\n", status.UptimeSeconds)
	fmt.Printf("paused:               %v\n", status.Paused)
	fmt.Printf("power_connected_only: %v\n", status.PowerConnectedOnly)
	fmt.Printf("on_ac_power:          %v\n", status.OnACPower)
	for _, d := range status.Displays {
		state := "paused"
		if d.Playing {
			state = "playing"
		}
		video := d.VideoPath
		if video == "" {
			video = "(none)"
		}
		fmt.Printf("display %d: %s %dx%d  %s [%s, %s]\n",
			d.Index, d.Name, d.Width, d.Height, video, d.ScaleMode, state)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "print monitors as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List connected displays via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	monitors, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut || !stdoutIsTerminal() {
		data, err := json.MarshalIndent(monitors, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	for _, m := range monitors.Monitors {
		fmt.Printf("%d: %s  %dx%d at (%d,%d)\n", m.Index, m.Name, m.Width, m.Height, m.X, m.Y)
	}
	return 0
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli set <display> <file>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set a video file as the live wallpaper of a display.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	display, err := strconv.Atoi(fs.Arg(0))
	if err != nil || display < 0 {
		fmt.Fprintf(os.Stderr, "Invalid display index: %s\n", fs.Arg(0))
		return 2
	}

	path, err := filepath.Abs(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if ok, reason := codec.CheckPlayable(path); !ok {
		fmt.Fprintln(os.Stderr, reason)
		return 1
	}

	client := ipc.NewClient()
	if err := client.SetWallpaper(display, path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClear(args []string) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli clear <display>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Remove a display's wallpaper and its persisted assignment.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	display, err := strconv.Atoi(fs.Arg(0))
	if err != nil || display < 0 {
		fmt.Fprintf(os.Stderr, "Invalid display index: %s\n", fs.Arg(0))
		return 2
	}

	client := ipc.NewClient()
	if err := client.ClearWallpaper(display); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runScale(args []string) int {
	fs := flag.NewFlagSet("scale", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli scale <display> <mode>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set a display's scale mode: fill, fit, stretch or center.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	display, err := strconv.Atoi(fs.Arg(0))
	if err != nil || display < 0 {
		fmt.Fprintf(os.Stderr, "Invalid display index: %s\n", fs.Arg(0))
		return 2
	}
	if _, err := surface.ParseScaleMode(fs.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if err := client.SetScaleMode(display, fs.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPause(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: livewalli pause")
		return 2
	}
	client := ipc.NewClient()
	if err := client.PauseAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runResume(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: livewalli resume")
		return 2
	}
	client := ipc.NewClient()
	if err := client.ResumeAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPower(args []string) int {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(os.Stderr, "Usage: livewalli power on|off")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "When on, wallpapers only play while the machine runs on external power.")
		return 2
	}

	client := ipc.NewClient()
	if err := client.SetPowerPolicy(args[0] == "on"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRecent(args []string) int {
	fs := flag.NewFlagSet("recent", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	remove := fs.String("remove", "", "remove a path from the recent list")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: livewalli recent [--remove <file>]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List recently used wallpapers, most recent first.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if *remove != "" {
		path, err := filepath.Abs(*remove)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.RemoveRecent(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	recent, err := client.GetRecent()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, p := range recent.Paths {
		fmt.Println(p)
	}
	return 0
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: livewalli check <file>")
		return 2
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if ok, reason := codec.CheckPlayable(path); !ok {
		fmt.Fprintln(os.Stderr, reason)
		return 1
	}
	fmt.Println("OK")
	return 0
}

func runAutostart(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: livewalli autostart enable|disable|status")
		return 2
	}

	switch args[0] {
	case "enable":
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := autostart.Enable(exe); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "disable":
		if err := autostart.Disable(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "status":
		enabled, err := autostart.Enabled()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if enabled {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
		return 0
	default:
		fmt.Fprintln(os.Stderr, "Usage: livewalli autostart enable|disable|status")
		return 2
	}
}
