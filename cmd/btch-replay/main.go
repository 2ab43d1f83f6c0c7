package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcfg "github.com/park285/btch-engine/internal/config"
	"github.com/park285/btch-engine/internal/enginebuilder"
	"github.com/park285/btch-engine/internal/obslog"
	"github.com/park285/btch-engine/pkg/gamedto"
)

const (
	whiteUser = "white"
	blackUser = "black"
)

func main() {
	var (
		viewAs   = flag.String("as", "white", "orientation of the printed board: white or black")
		pngPath  = flag.String("png", "", "write the final position as PNG to this path")
		asJSON   = flag.Bool("json", false, "print the snapshot history as JSON instead of the board")
		resignBy = flag.String("resign", "", "after the moves, resign as white or black")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] e2e4 e7e5 ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := obslog.Init(enginebuilder.LogOptions(cfg))
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := enginebuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("engine_init_error", zap.Error(err))
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, deps, flag.Args(), options{viewAs: *viewAs, pngPath: *pngPath, asJSON: *asJSON, resignBy: *resignBy}); err != nil {
		var de gamedto.DomainError
		if errors.As(err, &de) {
			fmt.Fprintf(os.Stderr, "%s (%s)\n", de.Message, de.Code)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type options struct {
	viewAs   string
	pngPath  string
	asJSON   bool
	resignBy string
}

func run(ctx context.Context, deps *enginebuilder.Deps, moves []string, opts options) error {
	svc := deps.Service
	created, err := svc.Create(ctx, gamedto.CreateGameRequest{UserID: whiteUser, Color: "white"})
	if err != nil {
		return err
	}
	id := created.Game.ID
	if _, err := svc.Join(ctx, gamedto.JoinGameRequest{Meta: gamedto.RequestMeta{GameID: id, UserID: blackUser}}); err != nil {
		return err
	}

	for i, mv := range moves {
		user := whiteUser
		if i%2 == 1 {
			user = blackUser
		}
		if _, err := svc.Move(ctx, gamedto.MoveRequest{Meta: gamedto.RequestMeta{GameID: id, UserID: user}, Move: mv}); err != nil {
			return fmt.Errorf("ply %d %s: %w", i+1, mv, err)
		}
	}
	if opts.resignBy != "" {
		if _, err := svc.Resign(ctx, gamedto.ResignRequest{Meta: gamedto.RequestMeta{GameID: id, UserID: opts.resignBy}}); err != nil {
			return err
		}
	}

	if opts.asJSON {
		hist, err := svc.History(ctx, gamedto.HistoryRequest{Meta: gamedto.RequestMeta{GameID: id}})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hist.Snapshots)
	}

	viewer := whiteUser
	if opts.viewAs == "black" {
		viewer = blackUser
	}
	view, err := svc.View(ctx, gamedto.ViewRequest{
		Meta:      gamedto.RequestMeta{GameID: id, UserID: viewer},
		WithImage: opts.pngPath != "",
	})
	if err != nil {
		return err
	}
	fmt.Println(view.View.Text)
	fmt.Println(view.View.Board)
	if opts.pngPath != "" {
		if err := os.WriteFile(opts.pngPath, view.View.Image, 0o644); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}
	return nil
}
