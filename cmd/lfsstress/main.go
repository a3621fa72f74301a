// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
This command verifies the lfs stack, pool and spin lock under load.

Every test runs the configured number of workers concurrently and checks
its invariant afterwards: each stack element popped exactly once, no pool
element held twice, no lost spin lock increment. A failed check exits
non-zero.

For the list of command line options, run:

	lfsstress -help

With -metrics-addr set, the stack and pool gauges are served on /metrics
while the tests run, and for -linger afterwards.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"code.hybscloud.com/lfs"
	"code.hybscloud.com/lfs/metrics"
)

const (
	defaultWorkers     = 8
	defaultOps         = 10000
	defaultCapacity    = 64
	defaultTests       = "stack,pool,spinlock"
	defaultLogLevel    = "INFO"
	defaultMetricsAddr = ""
	defaultLinger      = 0

	workersUsage     = "number of concurrent workers per test"
	opsUsage         = "operations per worker"
	capacityUsage    = "pool capacity used by the pool test"
	testsUsage       = "comma separated tests to run: stack, pool, spinlock"
	logLevelUsage    = "log level: PANIC, FATAL, ERROR, WARN, INFO, DEBUG"
	metricsAddrUsage = "network address serving Prometheus metrics on /metrics; empty disables"
	lingerUsage      = "keep serving metrics for this long after the tests finish"
)

var (
	workers     int
	ops         int
	capacity    int
	tests       string
	logLevel    string
	metricsAddr string
	linger      time.Duration
)

func init() {
	flag.IntVar(&workers, "workers", defaultWorkers, workersUsage)
	flag.IntVar(&ops, "ops", defaultOps, opsUsage)
	flag.IntVar(&capacity, "capacity", defaultCapacity, capacityUsage)
	flag.StringVar(&tests, "tests", defaultTests, testsUsage)
	flag.StringVar(&logLevel, "log-level", defaultLogLevel, logLevelUsage)
	flag.StringVar(&metricsAddr, "metrics-addr", defaultMetricsAddr, metricsAddrUsage)
	flag.DurationVar(&linger, "linger", defaultLinger, lingerUsage)
}

func main() {
	flag.Parse()

	if level, err := log.ParseLevel(logLevel); err != nil {
		log.Fatal(err)
	} else {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	o := options{Workers: workers, Ops: ops, Capacity: capacity}
	if err := o.validate(); err != nil {
		flag.PrintDefaults()
		log.Fatal(err)
	}
	names, err := selectTests(strings.Split(tests, ","))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, names); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, names []string) error {
	col := metrics.NewCollector("")

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(col)
		reg.MustRegister(collectors.NewGoCollector())

		server := newServer(metricsAddr, reg)
		go func() {
			log.Infof("serving metrics on %s", metricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server: ", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("unable to shut down the metrics server: ", err)
			}
		}()
	}

	logger := log.WithFields(log.Fields{
		"backend": lfs.Backend,
		"workers": o.Workers,
		"ops":     o.Ops,
	})
	logger.Info("starting")

	for _, name := range names {
		logger.WithField("test", name).Debug("running")
		r, err := stressTests[name](ctx, o, col)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.WithFields(log.Fields{
			"test":      r.Name,
			"total_ops": r.Ops,
			"duration":  r.Duration,
			"ops_per_s": fmt.Sprintf("%.0f", r.opsPerSecond()),
		}).Info("passed")
	}

	if metricsAddr != "" && linger > 0 {
		logger.Infof("lingering for %s", linger)
		select {
		case <-ctx.Done():
		case <-time.After(linger):
		}
	}
	return nil
}

func newServer(address string, reg *prometheus.Registry) *http.Server {
	handler := http.NewServeMux()
	handler.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{Addr: address, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
}
