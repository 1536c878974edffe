// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/orbs-network/orbs-counter-go/bootstrap"
	"github.com/orbs-network/orbs-counter-go/config"
	"github.com/orbs-network/orbs-counter-go/crypto/digest"
	"github.com/orbs-network/orbs-counter-go/crypto/hash"
	"github.com/orbs-network/orbs-counter-go/crypto/keys"
	"github.com/orbs-network/orbs-counter-go/instrumentation"
	"github.com/orbs-network/orbs-counter-go/instrumentation/metric"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/repository/Counter"
	"github.com/orbs-network/orbs-counter-go/services/processor/native/types"
	"github.com/orbs-network/orbs-counter-go/services/virtualmachine"
	"github.com/orbs-network/orbs-spec/types/go/primitives"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"os"
	"time"
)

func main() {
	logger := instrumentation.GetBootstrapCrashLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error in main goroutine", log.Error(errors.Errorf("unknown error: %v", r)))
			os.Exit(2)
		}
	}()

	dataDir := flag.String("data-dir", "", "path/to/state, defaults to the configured state storage dir")
	accountSeed := flag.String("account", "counter-node", "seed of the account key that installs and calls the counter")
	increments := flag.Int("increments", 1, "number of increment_count deploys to run")
	silentLog := flag.Bool("silent", false, "disable output to stdout")
	pathToLog := flag.String("log", "", "path/to/node.log")
	version := flag.Bool("version", false, "returns information about version")

	var configFiles config.ArrayFlags
	flag.Var(&configFiles, "config", "path/to/config.json")

	flag.Parse()

	if *version {
		fmt.Println(config.GetVersion())
		return
	}

	cfg, err := config.GetNodeConfigFromFiles(configFiles, *dataDir)
	if err != nil {
		logger.Error("error reading configuration", log.Error(err))
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", log.Error(err))
		os.Exit(1)
	}

	logger = instrumentation.GetLogger(*pathToLog, *silentLog, cfg)

	keyPair, err := keys.Ed25519KeyPairFromSeed(hash.CalcSha256([]byte(*accountSeed)))
	if err != nil {
		logger.Error("failed deriving account key", log.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger, err := bootstrap.NewLedger(ctx, cfg, logger, metric.NewRegistry())
	if err != nil {
		logger.Error("failed starting ledger", log.Error(err))
		os.Exit(1)
	}
	defer ledger.Shutdown()

	count, err := run(ctx, ledger, cfg.VirtualChainId(), keyPair, *increments)
	if err != nil {
		logger.Error("counter run failed", log.Error(err))
		os.Exit(3)
	}
	fmt.Println(count)
}

// run installs the counter for the account unless it already holds one, then increments it
func run(ctx context.Context, ledger *bootstrap.Ledger, vcid primitives.VirtualChainId, keyPair *keys.Ed25519KeyPair, increments int) (uint32, error) {
	accountHash, err := digest.CalcAccountHashOfEd25519PublicKey(keyPair.PublicKey())
	if err != nil {
		return 0, err
	}

	height, err := ledger.BlockHeight(ctx)
	if err != nil {
		return 0, err
	}
	if height == 0 {
		if err := ledger.RunGenesis(ctx, keyPair.PublicKey()); err != nil {
			return 0, err
		}
	}

	account, err := ledger.GetAccount(ctx, accountHash)
	if err != nil {
		return 0, errors.Wrap(err, "account is not part of this ledger")
	}
	if !account.NamedKeys.Contains(counter.CONTRACT_HASH_KEY) {
		install := virtualmachine.ExecutableItem{Kind: virtualmachine.ITEM_KIND_PROGRAM, ProgramName: counter.PROGRAM_NAME}
		if err := execute(ctx, ledger, vcid, keyPair, accountHash, install); err != nil {
			return 0, errors.Wrap(err, "install failed")
		}
	}

	accountKey := types.NewAccountKey(accountHash)
	stored, err := ledger.Query(ctx, accountKey)
	if err != nil {
		return 0, err
	}
	hashKey, found := stored.NamedKeys().Get(counter.CONTRACT_HASH_KEY)
	if !found {
		return 0, errors.Errorf("account %s has no %s after install", accountHash, counter.CONTRACT_HASH_KEY)
	}
	contractHash, err := hashKey.IntoHash()
	if err != nil {
		return 0, err
	}

	for i := 0; i < increments; i++ {
		increment := virtualmachine.ExecutableItem{
			Kind:       virtualmachine.ITEM_KIND_STORED_CONTRACT_BY_HASH,
			Hash:       contractHash,
			EntryPoint: counter.ENTRY_POINT_INCREMENT,
		}
		if err := execute(ctx, ledger, vcid, keyPair, accountHash, increment); err != nil {
			return 0, errors.Wrapf(err, "increment %d failed", i+1)
		}
	}

	value, err := ledger.Query(ctx, accountKey, counter.CONTRACT_HASH_KEY, counter.COUNT_KEY)
	if err != nil {
		return 0, err
	}
	clValue, ok := value.AsCLValue()
	if !ok {
		return 0, errors.Errorf("%s does not hold a cell", counter.COUNT_KEY)
	}
	return clValue.ToUint32()
}

func execute(ctx context.Context, ledger *bootstrap.Ledger, vcid primitives.VirtualChainId, keyPair *keys.Ed25519KeyPair, accountHash primitives.Sha256, session virtualmachine.ExecutableItem) error {
	deploy := &virtualmachine.Deploy{
		Header: virtualmachine.DeployHeader{
			Account:   accountHash,
			PublicKey: keyPair.PublicKey(),
			Timestamp: primitives.TimestampNano(time.Now().UnixNano()),
			ChainId:   vcid,
		},
		Session: session,
	}
	if err := deploy.Sign(keyPair.PrivateKey()); err != nil {
		return err
	}

	receipts, err := ledger.ExecuteAndCommit(ctx, deploy)
	if err != nil {
		return err
	}
	if !receipts[0].Succeeded() {
		return errors.Errorf("deploy failed: %s", receipts[0])
	}
	return nil
}
