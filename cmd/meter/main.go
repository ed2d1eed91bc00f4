// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/cmd/meter/httpserver"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/consensus"
	"github.com/vechain/meter/health"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/metrics"
	"github.com/vechain/meter/node"
	"github.com/vechain/meter/packer"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/txpool"
	"github.com/vechain/meter/vm"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

// the node reports unhealthy when the head has not moved for this many block intervals
const healthyBlockIntervals = 3

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Meter",
		Usage:     "Ledger node with resource metered transactions",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			networkFlag,
			dataDirFlag,
			keyFileFlag,
			produceFlag,
			verbosityFlag,
			jsonLogsFlag,
			cacheFlag,
			txPoolLimitFlag,
			txPoolLimitPerAccountFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipClockCheckFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "import",
				Usage: "import blocks from an RLP stream file",
				Flags: []cli.Flag{
					networkFlag,
					dataDirFlag,
					verbosityFlag,
					cacheFlag,
					fileFlag,
				},
				Action: importAction,
			},
			{
				Name:  "export",
				Usage: "export canonical blocks into an RLP stream file",
				Flags: []cli.Flag{
					networkFlag,
					dataDirFlag,
					verbosityFlag,
					cacheFlag,
					fileFlag,
				},
				Action: exportAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// instance bundles the chain components opened for a command.
type instance struct {
	net  *network
	db   *lvldb.LevelDB
	snap *snapshot.Chain
	repo *chain.Repository
	cons *consensus.Consensus
	dir  string
}

func openInstance(ctx *cli.Context) (*instance, error) {
	net, err := selectNetwork(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := makeInstanceDir(ctx, net.genesis)
	if err != nil {
		return nil, err
	}
	// half for the database, half for the state cache
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	db, err := openMainDB(cacheMB, dir)
	if err != nil {
		return nil, err
	}
	snap, repo, err := openChain(net.genesis, db, cacheMB/2)
	if err != nil {
		db.Close()
		return nil, err
	}
	cons := consensus.New(repo, net.forkConfig, vm.KVExecutor{}, tx.Secp256k1Verifier{})
	return &instance{net, db, snap, repo, cons, dir}, nil
}

func (inst *instance) Close() {
	logger.Info("closing main database...")
	if err := inst.db.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// newNode creates the chain manager and replays the blocks above the durable state.
func (inst *instance) newNode(ctx context.Context, txPool *txpool.TxPool) (*node.Node, error) {
	n := node.New(inst.repo, inst.snap, inst.cons, txPool)
	if err := n.Recover(ctx); err != nil {
		n.Close()
		return nil, errors.WithMessage(err, "recover")
	}
	return n, nil
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	txPool := txpool.New(inst.repo, tx.Secp256k1Verifier{}, txpool.Options{
		Limit:           ctx.Int(txPoolLimitFlag.Name),
		LimitPerAccount: ctx.Int(txPoolLimitPerAccountFlag.Name),
		MaxLifetime:     txpool.DefaultOptions().MaxLifetime,
	})
	defer func() { logger.Info("closing tx pool..."); txPool.Close() }()

	n, err := inst.newNode(exitSignal, txPool)
	if err != nil {
		return err
	}
	defer n.Close()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	var goes co.Goes
	defer goes.Wait()
	runCtx, cancel := context.WithCancel(exitSignal)
	defer cancel()

	if ctx.Bool(enableAdminFlag.Name) {
		h := health.New(time.Duration(meter.BlockInterval()*healthyBlockIntervals) * time.Second)
		goes.Go(func() { h.Track(runCtx, n) })

		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, n, txPool, h)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		logger.Info("admin server started", "url", url)
	}
	if !ctx.Bool(skipClockCheckFlag.Name) {
		goes.Go(func() { clockCheckLoop(runCtx) })
	}

	best := inst.repo.BestHeader()
	logger.Info("node started",
		"network", inst.net.genesis.Name(),
		"genesis", inst.net.genesis.ID(),
		"best", best.ID().AbbrevString(),
		"solid", n.SolidBlock().Number(),
		"forks", inst.net.forkConfig,
		"instance", inst.dir)

	if !ctx.Bool(produceFlag.Name) {
		<-runCtx.Done()
		return nil
	}

	key, err := loadProducerKey(ctx, inst.net, inst.dir)
	if err != nil {
		return errors.WithMessage(err, "load producer key")
	}
	producer := meter.Address(crypto.PubkeyToAddress(key.PublicKey))
	n.SetPacker(packer.New(inst.repo, inst.cons, producer))
	logger.Info("block production enabled", "producer", producer)

	return n.Run(runCtx, key)
}

func importAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	path := ctx.String(fileFlag.Name)
	if path == "" {
		return errors.Errorf("-%s is required", fileFlag.Name)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	n, err := inst.newNode(exitSignal, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	imported, err := importBlocks(exitSignal, n, f, fileSize(f))
	logger.Info("import finished", "imported", imported, "best", n.BestBlock().Number())
	return err
}

func exportAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	path := ctx.String(fileFlag.Name)
	if path == "" {
		return errors.Errorf("-%s is required", fileFlag.Name)
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	exported, err := exportBlocks(exitSignal, inst.repo, f)
	logger.Info("export finished", "exported", exported)
	return err
}
