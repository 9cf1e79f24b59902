// Command rillcoind is the RillCoin full-node daemon: it opens the chain
// and ban-list stores, seeds genesis, constructs the mempool, engine and
// p2psync manager, and serves a read-only telemetry feed over websockets.
// It has no gossip or peer transport listener. There is no wallet and no write RPC surface
// (spec.md's Non-goals) — everything here is consensus plumbing, modeled
// on the teacher's own cmd/rubin-node daemon skeleton.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/rillcoin/rilld/chainstate"
	"github.com/rillcoin/rilld/chainstate/banlist"
	"github.com/rillcoin/rilld/engine"
	"github.com/rillcoin/rilld/genesis"
	"github.com/rillcoin/rilld/mempool"
	"github.com/rillcoin/rilld/p2psync"
	"github.com/rillcoin/rilld/rpcview"
)

// config is rillcoind's flag surface, in the go-flags struct-tag style
// the corpus uses for its node daemons.
type config struct {
	DataDir        string `long:"datadir" description:"node data directory" default:"./rilld-data"`
	ListenAddr     string `long:"listen" description:"telemetry websocket bind address" default:"127.0.0.1:7333"`
	MaxPeers       int    `long:"max-peers" description:"maximum tracked sync peers (reported at startup, not enforced)" default:"32"`
	MempoolMaxTx   int    `long:"mempool-max-tx" description:"maximum mempool transaction count" default:"5000"`
	MempoolMaxByte int    `long:"mempool-max-bytes" description:"maximum mempool size in bytes" default:"67108864"`
	BroadcastSecs  int    `long:"telemetry-interval-secs" description:"seconds between telemetry broadcasts" default:"5"`
	DryRun         bool   `long:"dry-run" description:"print effective startup state and exit without serving"`
}

func defaultConfig() config {
	return config{
		DataDir:        "./rilld-data",
		ListenAddr:     "127.0.0.1:7333",
		MaxPeers:       32,
		MempoolMaxTx:   5000,
		MempoolMaxByte: 64 * 1024 * 1024,
		BroadcastSecs:  5,
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 2
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		fmt.Fprintf(stderr, "datadir create failed: %v\n", err)
		return 2
	}

	chainPath := cfg.DataDir + "/chainstate"
	store, err := chainstate.Open(chainPath)
	if err != nil {
		fmt.Fprintf(stderr, "chainstate open failed: %v\n", err)
		return 2
	}
	defer store.Close()

	if err := chainstate.EnsureGenesis(store, genesis.Block()); err != nil {
		fmt.Fprintf(stderr, "genesis seed failed: %v\n", err)
		return 2
	}

	banPath := cfg.DataDir + "/banlist"
	bans, err := banlist.Open(banPath)
	if err != nil {
		fmt.Fprintf(stderr, "banlist open failed: %v\n", err)
		return 2
	}
	defer bans.Close()

	pool := mempool.New(mempool.Limits{
		MaxTxCount:    cfg.MempoolMaxTx,
		MaxTotalBytes: cfg.MempoolMaxByte,
	})

	genesisTarget := genesis.Block().Header.DifficultyTarget
	eng := engine.New(store, func() uint64 { return uint64(time.Now().Unix()) }, genesisTarget)

	syncMgr := p2psync.NewManager(bans, time.Now)
	persistedBans, err := bans.All()
	if err != nil {
		fmt.Fprintf(stderr, "banlist read failed: %v\n", err)
		return 2
	}
	for peer := range persistedBans {
		syncMgr.SeedBan(peer)
	}

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(stderr, "chainstate stats failed: %v\n", err)
		return 2
	}
	fmt.Fprintf(stdout, "rillcoind: height=%d tip=%s utxos=%d supply=%d decay_pool=%d\n",
		stats.TipHeight, hex.EncodeToString(stats.TipHash[:]), stats.UtxoCount, stats.CirculatingSupply, stats.DecayPoolBalance)

	nextTarget, err := eng.DifficultyAtHeight(stats.TipHeight + 1)
	if err != nil {
		fmt.Fprintf(stderr, "difficulty lookup failed: %v\n", err)
		return 2
	}
	fmt.Fprintf(stdout, "rillcoind: next_difficulty_target=%x sync_state=%s max_peers=%d\n",
		nextTarget, syncMgr.State().Kind, cfg.MaxPeers)

	if cfg.DryRun {
		return 0
	}

	view := rpcview.NewServer()
	mux := http.NewServeMux()
	mux.Handle("/feed", view.Handler())
	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- httpSrv.ListenAndServe() }()

	fmt.Fprintf(stdout, "rillcoind: telemetry feed listening on ws://%s/feed\n", cfg.ListenAddr)

	interval := time.Duration(cfg.BroadcastSecs) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
			fmt.Fprintln(stdout, "rillcoind: stopped")
			return 0
		case err := <-serveErrCh:
			if err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(stderr, "telemetry server failed: %v\n", err)
				return 2
			}
		case <-ticker.C:
			if err := broadcastSnapshot(view, store, pool); err != nil {
				fmt.Fprintf(stderr, "rillcoind: snapshot broadcast failed: %v\n", err)
			}
		}
	}
}

func broadcastSnapshot(view *rpcview.Server, store *chainstate.Store, pool *mempool.Pool) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	return view.Broadcast(rpcview.Snapshot{
		Height:            stats.TipHeight,
		TipHash:           hex.EncodeToString(stats.TipHash[:]),
		CirculatingSupply: stats.CirculatingSupply,
		DecayPoolBalance:  stats.DecayPoolBalance,
		MempoolLen:        pool.Len(),
		MempoolBytes:      pool.TotalBytes(),
	})
}
