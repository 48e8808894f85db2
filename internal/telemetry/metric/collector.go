package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/rwlockmap/pkg/rwmap"
)

// MapCollector reports the entry count of tracked maps at scrape time.
//
// The tracked sizers are kept in an rwmap.Map: scrapes only read, while
// Track is a rare write.
type MapCollector struct {
	sizes *rwmap.Map[string, func() int]
	desc  *prometheus.Desc
}

// NewMapCollector creates a collector with no tracked maps.
func NewMapCollector() *MapCollector {
	return &MapCollector{
		sizes: rwmap.NewWith[string, func() int](
			rwmap.NewHashMap[string, func() int](func(a, b func() int) bool { return false }),
		),
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Number of entries in a tracked map.",
			[]string{"map"}, nil,
		),
	}
}

// Track registers size under name, replacing any previous sizer.
func (c *MapCollector) Track(name string, size func() int) {
	c.sizes.Put(name, size)
}

// Describe implements prometheus.Collector.
func (c *MapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *MapCollector) Collect(ch chan<- prometheus.Metric) {
	for name, size := range c.sizes.Clone() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(size()), name)
	}
}
