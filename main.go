package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
)

const clientVersion = "0.3.0"

var (
	host       string
	clientName string
	doDebug    bool
	fake       bool
)

func main() {
	flag.StringVar(&host, "host", "", "game server websocket url (overrides settings)")
	flag.StringVar(&clientName, "name", "goCyberia", "client name sent in the handshake")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.BoolVar(&fake, "fake", false, "simulate server messages without connecting")
	flag.Parse()

	loadSettings()
	if host == "" {
		host = gs.Host
	}
	setupLogging(doDebug)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v", r)
			panic(r)
		}
	}()

	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	go loadTextures()

	if fake {
		go runFakeMode(ctx)
	} else {
		go connectLoop(ctx, host, clientName, clientVersion)
		go pingLoop(ctx)
	}

	runGame(ctx)
	cancel()
}
