// Command havoc-fuzz drives the mutation engine against a target function
// for a bounded duration, logging crashes and (optionally) watching a
// corpus directory for new seeds. Two small built-in targets are provided
// for smoke-testing the harness end to end without an external binary.
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/orizon-lang/havoc/internal/corpus"
	"github.com/orizon-lang/havoc/internal/fuzzharness"
	"github.com/orizon-lang/havoc/internal/profile"
	"github.com/orizon-lang/havoc/internal/relay"
)

func main() {
	var (
		dur         time.Duration
		seed        uint64
		maxInput    int
		concurrency int
		corpusDir   string
		watch       bool
		outPath     string
		targetKind  string
		per         time.Duration
		maxExecs    uint64
		profilePath string
		relayAddr   string
		relayPeer   string
	)

	flag.DurationVar(&dur, "duration", 5*time.Second, "fuzzing duration")
	flag.Uint64Var(&seed, "seed", 0, "random seed (0=derive one)")
	flag.IntVar(&maxInput, "max", 4096, "max input size")
	flag.IntVar(&concurrency, "p", 1, "parallel workers")
	flag.StringVar(&corpusDir, "corpus-dir", "", "directory of seed files (required)")
	flag.BoolVar(&watch, "watch", false, "watch corpus-dir for newly added seed files")
	flag.StringVar(&outPath, "out", "", "optional crashes output file")
	flag.StringVar(&targetKind, "target", "noop", "target selector (noop|json)")
	flag.DurationVar(&per, "per", 0, "per-input timeout (0=none)")
	flag.Uint64Var(&maxExecs, "max-execs", 0, "stop after this many executions (0=unlimited)")
	flag.StringVar(&profilePath, "profile", "", "optional profile JSON overriding max/concurrency/corpus-dir")
	flag.StringVar(&relayAddr, "relay-listen", "", "optional address to accept relayed entries from peer workers")
	flag.StringVar(&relayPeer, "relay-peer", "", "optional peer address to forward the loaded seed entries to at startup")
	flag.Parse()

	logger := log.New(os.Stderr, "[havoc] ", log.LstdFlags)

	if profilePath != "" {
		p, err := profile.Load(profilePath)
		if err != nil {
			logger.Fatalf("loading profile: %v", err)
		}

		if p.MaxInputSize > 0 {
			maxInput = p.MaxInputSize
		}

		if p.Concurrency > 0 {
			concurrency = p.Concurrency
		}

		if p.CorpusDir != "" {
			corpusDir = p.CorpusDir
		}
	}

	if corpusDir == "" {
		logger.Fatalf("-corpus-dir is required")
	}

	if cpu.X86.HasRDRAND {
		logger.Printf("host exposes RDRAND; hardware entropy available for -seed=0")
	}

	disk, err := corpus.LoadDisk(corpusDir)
	if err != nil {
		logger.Fatalf("loading corpus: %v", err)
	}
	defer disk.Close()

	if watch {
		if err := disk.Watch(); err != nil {
			logger.Fatalf("watching corpus dir: %v", err)
		}
	}

	var crashOut = os.Stderr

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Fatalf("creating crash output: %v", err)
		}
		defer f.Close()

		crashOut = f
	}

	var relaySrv *relay.Server

	if relayAddr != "" {
		// Relayed entries land in corpus-dir as regular seed files; with
		// -watch the disk watcher folds them into the live corpus.
		var relaySeq atomic.Uint64

		relaySrv, err = relay.Listen(relayAddr, insecureDemoTLS(), func(entry []byte) {
			if len(entry) == 0 {
				return
			}

			name := filepath.Join(corpusDir,
				fmt.Sprintf("relay-%d-%d", os.Getpid(), relaySeq.Add(1)))

			if werr := os.WriteFile(name, entry, 0o644); werr != nil {
				logger.Printf("storing relayed entry: %v", werr)
				return
			}

			logger.Printf("stored relayed entry (%d bytes) as %s", len(entry), name)
		})
		if err != nil {
			logger.Fatalf("starting relay listener: %v", err)
		}
		defer relaySrv.Close()
	}

	var relayClient *relay.Client

	if relayPeer != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		relayClient, err = relay.Dial(ctx, relayPeer, insecureDemoTLS())
		if err != nil {
			logger.Fatalf("dialing relay peer: %v", err)
		}
		defer relayClient.Close()

		shared := 0

		for i := 0; i < disk.NumInputs(); i++ {
			entry, ok := disk.GetInput(i)
			if !ok {
				break
			}

			if err := relayClient.Send(entry); err != nil {
				logger.Printf("forwarding seed %d: %v", i, err)
				break
			}

			shared++
		}

		logger.Printf("forwarded %d seed entries to %s", shared, relayPeer)
	}

	target, err := selectTarget(targetKind)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	stats := fuzzharness.Run(fuzzharness.Options{
		Duration:    dur,
		Seed:        seed,
		MaxInput:    maxInput,
		Concurrency: concurrency,
		InputBudget: per,
		MaxExecs:    maxExecs,
	}, disk, target, crashOut)

	logger.Printf("executions=%d crashes=%d", stats.Executions, stats.Crashes)
}

// selectTarget resolves -target into a fuzzharness.Target. "noop" accepts
// every input; "json" reports every input that encoding/json cannot decode
// as a crash.
func selectTarget(kind string) (fuzzharness.Target, error) {
	switch strings.ToLower(kind) {
	case "noop":
		return func(data []byte) error { return nil }, nil
	case "json":
		return func(data []byte) error {
			var v any
			return json.Unmarshal(data, &v)
		}, nil
	default:
		return nil, fmt.Errorf("unknown target %q", kind)
	}
}

// insecureDemoTLS builds a TLS config suitable only for same-host relay
// demos; it is not a substitute for a real peer trust configuration.
func insecureDemoTLS() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true, MinVersion: tls.VersionTLS13}
}
