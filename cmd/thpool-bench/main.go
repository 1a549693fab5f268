// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command thpool-bench drives a lock-based or lock-free pool through
// the high-fan-in scenario: a fixed number of producer goroutines each
// submit a fixed number of no-op-counting tasks, backing off on a full
// queue, and the command reports wall-clock time and throughput once
// every task has run.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/thpool"
)

type options struct {
	Kind        string `short:"k" long:"kind" default:"lp" choice:"lp" choice:"lfp" description:"pool implementation: lp (lock-based) or lfp (lock-free)"`
	Workers     int    `short:"w" long:"workers" default:"0" description:"worker count, 0 defaults to the host's logical CPU count"`
	QueueSize   int    `short:"q" long:"queue-size" default:"1024" description:"bounded task queue capacity"`
	Producers   int    `short:"p" long:"producers" default:"8" description:"number of concurrent submitting goroutines"`
	PerProducer int    `short:"n" long:"per-producer" default:"100000" description:"tasks submitted by each producer"`
}

func main() {
	log.SetFlags(0)

	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("thpool-bench: maxprocs.Set: %s", err)
	}

	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassAfterNonOption)
	rest, err := parser.Parse()
	if err != nil {
		log.Fatalf("thpool-bench: invalid arguments: %s", err)
	}
	if len(rest) != 0 {
		log.Fatalf("thpool-bench: unparsable arguments: %s", strings.Join(rest, ", "))
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	var (
		counter     atomic.Int64
		workerCount int
	)

	start := time.Now()

	switch opts.Kind {
	case "lp":
		p, err := thpool.New(opts.Workers, opts.QueueSize)
		if err != nil {
			return fmt.Errorf("thpool-bench: New: %w", err)
		}
		defer p.Destroy()
		workerCount = p.Workers()
		if err := drive(p, opts, &counter); err != nil {
			return err
		}
	case "lfp":
		p, err := thpool.NewLFP(opts.Workers, opts.QueueSize)
		if err != nil {
			return fmt.Errorf("thpool-bench: NewLFP: %w", err)
		}
		defer p.Destroy()
		workerCount = p.Workers()
		if err := drive(p, opts, &counter); err != nil {
			return err
		}
	default:
		return fmt.Errorf("thpool-bench: unknown kind %q", opts.Kind)
	}

	elapsed := time.Since(start)
	total := counter.Load()
	fmt.Printf("kind=%s workers=%d producers=%d tasks=%d elapsed=%s throughput=%.0f tasks/s\n",
		opts.Kind, workerCount, opts.Producers, total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

// submitter is the slice of the pool API the benchmark drives: submit
// with backoff and wait for drain.
type submitter interface {
	AddTask(thpool.Task) error
	Wait()
}

func drive(p submitter, opts options, counter *atomic.Int64) error {
	var g errgroup.Group
	for range opts.Producers {
		g.Go(func() error {
			backoff := iox.Backoff{}
			for range opts.PerProducer {
				for {
					err := p.AddTask(func() { counter.Add(1) })
					if err == nil {
						break
					}
					if !thpool.IsWouldBlock(err) {
						return fmt.Errorf("thpool-bench: AddTask: %w", err)
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.Wait()
	return nil
}
