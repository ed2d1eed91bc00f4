// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/consensus"
	"github.com/vechain/meter/genesis"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/node"
	"github.com/vechain/meter/packer"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

func newDevnetNode(t *testing.T) (*node.Node, *instance) {
	db := lvldb.NewMem()
	net := &network{genesis.NewDevnet(), meter.DefaultForkConfig}
	snap, repo, err := openChain(net.genesis, db, 16)
	require.NoError(t, err)

	inst := &instance{
		net:  net,
		db:   db,
		snap: snap,
		repo: repo,
		cons: consensus.New(repo, net.forkConfig, vm.KVExecutor{}, tx.Secp256k1Verifier{}),
	}
	n, err := inst.newNode(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(n.Close)
	return n, inst
}

func TestOpenChainTwice(t *testing.T) {
	db := lvldb.NewMem()
	gene := genesis.NewDevnet()

	_, repo, err := openChain(gene, db, 0)
	require.NoError(t, err)
	assert.Equal(t, gene.ID(), repo.GenesisBlock().ID())

	// the second open reuses the durable genesis state
	snap, repo, err := openChain(gene, db, 0)
	require.NoError(t, err)
	assert.Equal(t, gene.ID(), repo.BestHeader().ID())
	flushed, ok, err := snap.Flushed()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, gene.ID(), flushed)
}

func TestExportImport(t *testing.T) {
	src, srcInst := newDevnetNode(t)

	key := genesis.DevAccounts()[0].PrivateKey
	src.SetPacker(packer.New(srcInst.repo, srcInst.cons, genesis.DevAccounts()[0].Address))
	for range 3 {
		best := src.BestBlock()
		_, err := src.BuildBlock(context.Background(), key, best.Timestamp()+meter.BlockInterval())
		require.NoError(t, err)
	}
	require.Equal(t, uint32(3), src.BestBlock().Number())

	var buf bytes.Buffer
	exported, err := exportBlocks(context.Background(), srcInst.repo, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, exported)

	dst, _ := newDevnetNode(t)
	size := int64(buf.Len())
	imported, err := importBlocks(context.Background(), dst, bytes.NewReader(buf.Bytes()), size)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Equal(t, src.BestBlock().ID(), dst.BestBlock().ID())

	// importing again skips known blocks
	imported, err = importBlocks(context.Background(), dst, bytes.NewReader(buf.Bytes()), size)
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
}
