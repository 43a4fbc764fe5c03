// Command memprofile drives Vec and Option workloads under the heap
// profiler and reports allocator counters.
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"github.com/rawbytedev/subspace"
	"github.com/rawbytedev/subspace/mem"
)

func main() {
	var (
		configFile string
		profile    string
		pprofAddr  string
		iterations int
		debug      bool
		err        error
	)

	flag.StringVar(&configFile, "config", "", "Workload file (YAML)")
	flag.StringVar(&profile, "profile", "", "Heap profile output, overrides the config")
	flag.StringVar(&pprofAddr, "pprof", "", "Serve net/http/pprof on this address and wait")
	flag.IntVar(&iterations, "n", 0, "Iterations, overrides the config")
	flag.BoolVar(&debug, "debug", false, "Debug mode")

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	if debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	}
	defer logger.Sync()

	subspace.SetLogger(logger)

	cfg := DefaultConfig()
	if configFile != "" {
		cfg, err = LoadConfig(configFile)
		if err != nil {
			logger.Sugar().Fatalf("Error loading config %s: %v", configFile, err)
		}
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if iterations > 0 {
		cfg.Iterations = iterations
	}

	if pprofAddr != "" {
		go func() {
			logger.Error("pprof server stopped", zap.Error(http.ListenAndServe(pprofAddr, nil)))
		}()
	}

	runtime.MemProfileRate = 1

	for _, w := range cfg.Workloads {
		mem.ResetStats()
		start := time.Now()
		for i := 0; i < cfg.Iterations; i++ {
			if err := w.Runner.Run(); err != nil {
				logger.Sugar().Fatalf("Workload failed: %v", err)
			}
		}
		s := mem.Stats()
		logger.Info("workload done",
			zap.String("workload", w.Runner.Name()),
			zap.Int("iterations", cfg.Iterations),
			zap.Duration("elapsed", time.Since(start)),
			zap.Uint64("allocs", s.Allocs),
			zap.Uint64("resizes", s.Resizes),
			zap.Uint64("frees", s.Frees),
			zap.Int64("liveBytes", s.LiveBytes),
		)
	}

	f, err := os.Create(cfg.Profile)
	if err != nil {
		logger.Sugar().Fatalf("Error creating profile: %v", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		logger.Sugar().Fatalf("Error writing profile: %v", err)
	}
	logger.Sugar().Infof("Heap profile written to %s", cfg.Profile)

	if pprofAddr != "" {
		select {}
	}
}
