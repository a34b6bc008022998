// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Command ethcored wires the wire protocol, transaction pool, Clique engine
// and miner scheduler together against a fake in-memory chain and VM, for
// local smoke testing of the block-assembly loop without a real EVM, trie,
// or RLPx transport (§1 Non-goals; §4.L).
package main

import (
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clevermacaw/ethcore/common"
	"github.com/clevermacaw/ethcore/common/mclock"
	"github.com/clevermacaw/ethcore/consensus/clique"
	"github.com/clevermacaw/ethcore/core/chain"
	"github.com/clevermacaw/ethcore/core/txpool"
	"github.com/clevermacaw/ethcore/core/types"
	"github.com/clevermacaw/ethcore/eth/protocols/eth"
	"github.com/clevermacaw/ethcore/event"
	"github.com/clevermacaw/ethcore/log"
	"github.com/clevermacaw/ethcore/miner"
	"github.com/clevermacaw/ethcore/params"
	"github.com/urfave/cli/v2"
)

var (
	networkIDFlag = &cli.Uint64Flag{
		Name:  "networkid",
		Usage: "Network identifier carried in the STATUS handshake",
		Value: 1337,
	}
	periodFlag = &cli.DurationFlag{
		Name:  "period",
		Usage: "Clique block period",
		Value: miner.DefaultPeriod,
	}
	epochFlag = &cli.Uint64Flag{
		Name:  "epoch",
		Usage: "Clique epoch length in blocks",
		Value: 30000,
	}
	signerFlag = &cli.StringFlag{
		Name:  "signer",
		Usage: "Hex address of the local Clique signer",
		Value: "0x1000000000000000000000000000000000000001",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Log verbosity (0=crit, 5=trace)",
		Value: int(log.LvlInfo),
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "ethcored"
	app.Usage = "devp2p/eth wire protocol and Clique block-assembly demo node"
	app.Version = params.VersionWithCommit("")
	app.Flags = []cli.Flag{networkIDFlag, periodFlag, epochFlag, signerFlag, verbosityFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(ctx.Int(verbosityFlag.Name)), log.StreamHandler(os.Stderr, log.TerminalFormat(true))))
	logger := log.New("module", "ethcored")

	signer := common.HexToAddress(ctx.String(signerFlag.Name))
	config := params.AllCliqueProtocolChanges(big.NewInt(int64(ctx.Uint64(networkIDFlag.Name))), uint64(ctx.Duration(periodFlag.Name).Seconds()), ctx.Uint64(epochFlag.Name))

	genesisAlloc := params.GenesisAlloc{
		signer: {Balance: new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000_000_000_000_000))},
	}
	genesis := types.NewBlockWithHeader(&types.Header{
		Number:     big.NewInt(0),
		Difficulty: big.NewInt(1),
		GasLimit:   30_000_000,
		Time:       uint64(time.Now().Unix()),
		Extra:      make([]byte, clique.ExtraVanity+clique.ExtraSeal),
	}).WithBody(nil)

	engine := clique.New(config.Clique, []common.Address{signer})
	mux := event.NewTypeMux()

	store := &fakeBlockchain{engine: engine, log: logger.New("component", "store")}
	c := chain.New(config, ctx.Uint64(networkIDFlag.Name), genesis, store, mux)
	store.chain = c

	txSigner := types.LatestSignerForChainID(config.ChainID, fakeRecover)
	pool := txpool.New(txSigner, nil)

	vm := newFakeVM(txSigner)

	backend := &fakeBackend{Chain: c, pool: pool, log: logger.New("component", "backend")}
	handler := eth.NewHandler(backend, pool, logger.New("component", "eth"))
	pool.SetBroadcaster(handler)

	// SignFunc is a placeholder for the external key-holder collaborator
	// (§1); it produces a fixed-shape but non-authoritative seal so the
	// demo can exercise the builder's Clique sealing path end to end.
	signFunc := func(sealHash common.Hash) ([]byte, error) {
		sig := make([]byte, clique.ExtraSeal)
		copy(sig, sealHash[:])
		return sig, nil
	}

	m := miner.New(miner.Config{
		Period:   ctx.Duration(periodFlag.Name),
		Signer:   signer,
		SignFunc: signFunc,
		Genesis:  func() params.GenesisAlloc { return genesisAlloc },
	}, config, engine, c, vm, pool, mclock.System{}, mux, logger.New("component", "miner"))

	m.Start()
	defer m.Stop()

	logger.Info("ethcored started", "signer", signer, "period", ctx.Duration(periodFlag.Name), "networkid", ctx.Uint64(networkIDFlag.Name))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info("shutting down")
	return nil
}
