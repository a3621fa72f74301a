// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports stack and pool occupancy as Prometheus gauges.
//
// The collector samples registered sources on every scrape; nothing is
// recorded on the Push/Pop path.
//
// Example:
//
//	c := metrics.NewCollector("")
//	_ = c.Register("buffers", pool)
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(c)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "lfs"

// ErrDuplicate is returned by Register when the name is already taken.
var ErrDuplicate = errors.New("metrics: source already registered")

// Depther is a source with a point-in-time element count.
// lfs.Stack and lfs.Pool implement it.
type Depther interface {
	Depth() int
}

// Pooler is a Depther that also reports capacity and free elements.
// lfs.Pool implements it.
type Pooler interface {
	Depther
	Cap() int
	Available() int
}

// Collector implements prometheus.Collector over named sources.
//
// Exported gauges, all labelled by source name:
//
//	<ns>_stack_depth       linked elements (free-list depth for pools)
//	<ns>_pool_available    elements Get can hand out
//	<ns>_pool_capacity     arena size
type Collector struct {
	mu      sync.RWMutex
	sources map[string]Depther

	stackDepth    *prometheus.Desc
	poolAvailable *prometheus.Desc
	poolCapacity  *prometheus.Desc
}

// NewCollector creates an empty collector. An empty namespace means "lfs".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	labels := []string{"name"}
	return &Collector{
		sources: make(map[string]Depther),
		stackDepth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "stack", "depth"),
			"Number of elements linked into the stack.",
			labels, nil,
		),
		poolAvailable: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "available"),
			"Number of elements the pool can hand out.",
			labels, nil,
		),
		poolCapacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "capacity"),
			"Fixed number of elements owned by the pool.",
			labels, nil,
		),
	}
}

// Register adds a source under name. Sources implementing Pooler also
// export the pool gauges.
func (c *Collector) Register(name string, d Depther) error {
	if name == "" {
		return errors.New("metrics: empty source name")
	}
	if d == nil {
		return fmt.Errorf("metrics: nil source %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sources[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	c.sources[name] = d
	return nil
}

// Unregister removes a source. Reports whether it was registered.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sources[name]
	delete(c.sources, name)
	return ok
}

// Names returns the registered source names in sorted order.
func (c *Collector) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stackDepth
	ch <- c.poolAvailable
	ch <- c.poolCapacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, d := range c.sources {
		ch <- prometheus.MustNewConstMetric(c.stackDepth, prometheus.GaugeValue, float64(d.Depth()), name)
		if p, ok := d.(Pooler); ok {
			ch <- prometheus.MustNewConstMetric(c.poolAvailable, prometheus.GaugeValue, float64(p.Available()), name)
			ch <- prometheus.MustNewConstMetric(c.poolCapacity, prometheus.GaugeValue, float64(p.Cap()), name)
		}
	}
}
