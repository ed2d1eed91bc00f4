// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/node"
)

// exportBlocks writes the canonical blocks after genesis to w as a stream of RLP encoded blocks.
func exportBlocks(ctx context.Context, repo *chain.Repository, w io.Writer) (int, error) {
	best := repo.BestHeader().Number()
	if best == 0 {
		return 0, nil
	}

	bar := pb.New64(int64(best)).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	bw := bufio.NewWriter(w)
	for num := uint32(1); num <= best; num++ {
		if err := ctx.Err(); err != nil {
			return int(num - 1), err
		}
		id, err := repo.GetCanonicalID(num)
		if err != nil {
			return int(num - 1), err
		}
		blk, err := repo.GetBlock(id)
		if err != nil {
			return int(num - 1), err
		}
		if err := rlp.Encode(bw, blk); err != nil {
			return int(num - 1), err
		}
		bar.Increment()
	}
	if err := bw.Flush(); err != nil {
		return int(best), err
	}
	bar.Finish()
	return int(best), nil
}

// importBlocks pushes every block of the RLP stream r into the node. Known blocks are skipped.
func importBlocks(ctx context.Context, n *node.Node, r io.Reader, size int64) (int, error) {
	bar := pb.New64(size).SetUnits(pb.U_BYTES).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	var (
		stream   = rlp.NewStream(bar.NewProxyReader(bufio.NewReader(r)), 0)
		imported int
	)
	for {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		var blk block.Block
		if err := stream.Decode(&blk); err != nil {
			if err == io.EOF {
				break
			}
			return imported, errors.Wrap(err, "decode block")
		}
		if err := n.PushBlock(ctx, &blk); err != nil {
			if node.IsKnownBlock(err) {
				continue
			}
			return imported, errors.WithMessagef(err, "import block %v", blk.ID())
		}
		imported++
	}
	bar.Finish()
	return imported, nil
}

func fileSize(f *os.File) int64 {
	if fi, err := f.Stat(); err == nil {
		return fi.Size()
	}
	return 0
}
