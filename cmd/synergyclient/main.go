// Command synergyclient connects to a Synergy/Barrier/Deskflow-compatible
// server and re-injects the keyboard and mouse events it receives into a
// uinput virtual device on this host. Grounded on
// _examples/aluo96078-vkvm/cmd/main.go's flag-driven CLI shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synergyclient/internal/autostart"
	"synergyclient/internal/config"
	"synergyclient/internal/device"
	"synergyclient/internal/diag"
	"synergyclient/internal/hotkey"
	"synergyclient/internal/platform"
	"synergyclient/internal/session"
	"synergyclient/internal/tlsconfig"
	"synergyclient/internal/tray"
)

var version = "0.1.0"

func main() {
	var (
		configPath       = flag.String("config", "", "path to config.json (default: ~/.config/synergyclient/config.json)")
		showVersion      = flag.Bool("version", false, "print version and exit")
		noTray           = flag.Bool("no-tray", false, "run without a system tray icon")
		autostartEnable  = flag.Bool("autostart-enable", false, "install and enable the systemd user unit, then exit")
		autostartDisable = flag.Bool("autostart-disable", false, "disable and remove the systemd user unit, then exit")
		autostartStatus  = flag.Bool("autostart-status", false, "print whether autostart is enabled, then exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("synergyclient version %s\n", version)
		return
	}

	if *autostartEnable {
		if err := autostart.Enable(*configPath); err != nil {
			log.Fatalf("autostart: %v", err)
		}
		fmt.Println("autostart enabled")
		return
	}
	if *autostartDisable {
		if err := autostart.Disable(); err != nil {
			log.Fatalf("autostart: %v", err)
		}
		fmt.Println("autostart disabled")
		return
	}
	if *autostartStatus {
		fmt.Println("autostart enabled:", autostart.IsEnabled())
		return
	}

	info := platform.Detect()
	if err := platform.RequireSupported(info); err != nil {
		log.Fatalf("%v", err)
	}

	cfgMgr, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("config: %v (continuing with defaults)", err)
	}
	cfg := cfgMgr.Get()

	dev, err := device.Open(device.Config{
		Name:          "synergyclient virtual input",
		VendorID:      0x1209, // pid.codes test VID, used the same way teacher repos use synthetic vendor ids
		ProductID:     0x0001,
		Version:       1,
		AbsoluteMouse: cfg.AbsoluteMouse,
		ScreenWidth:   uint16(cfg.ScreenWidth),
		ScreenHeight:  uint16(cfg.ScreenHeight),
	})
	if err != nil {
		log.Fatalf("device: %v", err)
	}
	defer dev.Close()

	tlsMode := tlsconfig.ModePlain
	if cfg.MTLS {
		tlsMode = tlsconfig.ModeMutualTLS
	} else if cfg.TLS {
		tlsMode = tlsconfig.ModeTLS
	}

	sess := session.New(session.Config{
		Server:             cfg.Server,
		Port:               cfg.Port,
		ClientName:         cfg.ClientName,
		ScreenWidth:        int32(cfg.ScreenWidth),
		ScreenHeight:       int32(cfg.ScreenHeight),
		AbsoluteMouse:      cfg.AbsoluteMouse,
		MoveThrottle:       cfg.MoveThrottle(),
		PosResyncEveryMove: cfg.MousePosSyncFreq,
		TLSMode:            tlsMode,
		PemPath:            cfg.PemPath,
		KnownHostsPath:     cfg.KnownHostsPath(),
		TrustOnChange:      cfg.TLSTrust == "always",
	}, dev)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hk := hotkey.NewManager()
	hk.Register(cfg.EscapeHotkey, func() {
		log.Println("hotkey: escape combo matched, releasing all held input")
		dev.ReleaseAll()
	})
	if err := hk.Start(); err != nil {
		log.Printf("hotkey: %v", err)
	}

	diagServer := diag.New(sess, dev)
	go func() {
		if err := diagServer.Start(cfg.DiagPort); err != nil {
			log.Printf("diag: %v", err)
		}
	}()

	go func() {
		if err := sess.Run(ctx); err != nil {
			log.Printf("session: stopped: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *noTray {
		<-sigCh
		cancel()
		return
	}

	var t *tray.Tray
	t = tray.New(
		func() { log.Println("tray: reconnect requested (handled automatically by the session loop)") },
		func() { cancel(); t.Stop() },
	)
	go func() {
		<-sigCh
		cancel()
		t.Stop()
	}()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetStatus(sess.StateString(), dev.HeldCount())
			}
		}
	}()
	t.Run()
}
