// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/genesis"
	"github.com/vechain/meter/kv"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/node"
	"github.com/vechain/meter/snapshot"
)

// state records live in their own bucket of the main db, apart from the chain stores.
const stateBucket = kv.Bucket("state.")

func initLogger(ctx *cli.Context) *slog.LevelVar {
	return log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.meter")
	}
	return ""
}

// network is the selected genesis with the chain wide settings it carries.
type network struct {
	genesis    *genesis.Genesis
	forkConfig meter.ForkConfig
}

func selectNetwork(ctx *cli.Context) (*network, error) {
	name := ctx.String(networkFlag.Name)
	if name == "" || name == "devnet" {
		return &network{genesis.NewDevnet(), meter.DefaultForkConfig}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()

	gen, err := genesis.LoadCustomGenesis(f)
	if err != nil {
		return nil, err
	}
	if gen.Config != nil {
		meter.SetConfig(*gen.Config)
	}
	meter.LockConfig()

	forkConfig := meter.DefaultForkConfig
	if gen.ForkConfig != nil {
		forkConfig = *gen.ForkConfig
	}
	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		return nil, errors.WithMessage(err, "custom genesis")
	}
	return &network{gene, forkConfig}, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit:", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

func openMainDB(cacheMB int, instanceDir string) (*lvldb.LevelDB, error) {
	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

// openChain opens the revoking store and the block repository over db.
// The genesis state is written on first use.
func openChain(gene *genesis.Genesis, db kv.Store, cacheMB int) (*snapshot.Chain, *chain.Repository, error) {
	snap := snapshot.New(stateBucket.NewStore(db), node.RetainedLayers())
	snap.EnableCache(cacheMB)

	_, initialized, err := snap.Flushed()
	if err != nil {
		return nil, nil, err
	}
	genesisBlock := gene.Block()
	if !initialized {
		if genesisBlock, err = gene.Build(snap); err != nil {
			return nil, nil, errors.WithMessage(err, "build genesis")
		}
		logger.Info("genesis state initialized", "id", genesisBlock.ID())
	}

	repo, err := chain.NewRepository(db, genesisBlock)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "open repository")
	}
	return snap, repo, nil
}

func loadOrGenerateKey(path string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.LoadECDSA(path)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	if key, err = crypto.GenerateKey(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

func loadProducerKey(ctx *cli.Context, net *network, instanceDir string) (*ecdsa.PrivateKey, error) {
	if path := ctx.String(keyFileFlag.Name); path != "" {
		return loadOrGenerateKey(path)
	}
	if net.genesis.Name() == "devnet" {
		return genesis.DevAccounts()[0].PrivateKey, nil
	}
	return loadOrGenerateKey(filepath.Join(instanceDir, "producer.key"))
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
