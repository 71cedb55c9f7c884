package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"critter-board/internal/board"
	"critter-board/internal/maps"
	"critter-board/internal/render"
	"critter-board/internal/server"
)

const (
	defaultAddr   = ":2222"
	defaultWSAddr = ":8080"
	hostKeyPath   = "host_key"
	levelsDir     = "assets/levels"
	shutdownWait  = 5 * time.Second
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	// Generate host key if it doesn't exist
	if err := ensureHostKey(hostKeyPath); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	dir := levelsDir
	if d := os.Getenv("LEVELS_DIR"); d != "" {
		dir = d
	}

	// Load all levels from directory
	allLevels, err := maps.LoadLevels(dir)
	if err != nil || len(allLevels) == 0 {
		log.Printf("Could not load levels from %s: %v, using default level", dir, err)
		dl := maps.DefaultLevel()
		allLevels = map[string]*maps.Level{dl.Name: dl}
	}
	store := maps.NewStore()
	for name, l := range allLevels {
		id, err := store.Create(l)
		if err != nil {
			log.Fatalf("Register level %q: %v", name, err)
		}
		log.Printf("Level loaded: %s (%dx%d, %d mines) id=%s", name, l.Width(), l.Height(), len(l.Mines()), id)
	}

	first, err := store.Get(store.Names()[0])
	if err != nil {
		log.Fatalf("Open first level: %v", err)
	}
	renderer := render.NewFieldRenderer(0)
	renderer.Debug = os.Getenv("DEBUG") != ""
	ctrl := board.NewController(renderer)
	if err := ctrl.LoadLevel(first.Level); err != nil {
		log.Fatalf("Load level: %v", err)
	}
	loop := board.NewLoop(ctrl, store, dir)

	listenAddr := defaultAddr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}
	wsAddr := defaultWSAddr
	if a := os.Getenv("WS_ADDR"); a != "" {
		wsAddr = a
	}
	sshServer := server.NewSSHServer(listenAddr, hostKeyPath, loop)
	wsServer := server.NewWSServer(wsAddr, loop)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return loop.Run(ctx) })
	g.Go(sshServer.Start)
	g.Go(wsServer.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Websocket shutdown: %v", err)
		}
		return sshServer.Close()
	})

	log.Printf("Starting Critter Board. Connect with: ssh -p %s you@localhost, or ws://localhost%s/ws", listenAddr[1:], wsAddr)
	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
