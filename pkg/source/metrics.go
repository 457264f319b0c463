package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "timeblock_source_fetches_total",
	Help: "Number of timetable fetches by data source kind and result (ok, empty, error)",
}, []string{"kind", "result"})

var cacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "timeblock_source_cache_total",
	Help: "Timetable cache lookups by result (hit, miss)",
}, []string{"result"})
