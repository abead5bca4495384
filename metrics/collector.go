package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts the generic Value/Dimension/Policy vocabulary to a
// concrete Prometheus registry, creating and caching one vector per metric
// name the first time it is recorded.
type Collector struct {
	registry *prometheus.Registry
	prefix   string

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
}

// NewCollector returns a Collector that registers every metric it creates
// with reg under the given subsystem prefix.
func NewCollector(reg *prometheus.Registry, prefix string) *Collector {
	return &Collector{
		registry: reg,
		prefix:   prefix,
		counters: make(map[string]*prometheus.CounterVec),
		gauges:   make(map[string]*prometheus.GaugeVec),
	}
}

// Record applies v to the named metric according to policy. PolicySum
// accumulates into a counter; every other policy (PolicySet, PolicyMax and
// so on) is treated as a last-value gauge, since Prometheus counters must
// never decrease and only a sum is monotonic in general.
func (c *Collector) Record(name string, policy Policy, v Value, dims Dimension) {
	labels := labelNames(dims)
	if policy == PolicySum {
		c.counterFor(name, labels).With(prometheus.Labels(dims)).Add(float64(v))
		return
	}
	c.gaugeFor(name, labels).With(prometheus.Labels(dims)).Set(float64(v))
}

func (c *Collector) counterFor(name string, labels []string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.counters[name]; ok {
		return cv
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: c.prefix,
		Name:      name,
		Help:      "clusterlink " + c.prefix + " " + name,
	}, labels)
	c.registry.MustRegister(cv)
	c.counters[name] = cv
	return cv
}

func (c *Collector) gaugeFor(name string, labels []string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gv, ok := c.gauges[name]; ok {
		return gv
	}
	gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: c.prefix,
		Name:      name,
		Help:      "clusterlink " + c.prefix + " " + name,
	}, labels)
	c.registry.MustRegister(gv)
	c.gauges[name] = gv
	return gv
}

func labelNames(dims Dimension) []string {
	names := make([]string, 0, len(dims))
	for k := range dims {
		names = append(names, k)
	}
	return names
}
