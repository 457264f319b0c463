package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "timeblock_controller_reloads_total",
	Help: "Number of completed timetable reloads, by result (ok, empty, error, stale)",
}, []string{"result"})

var ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "timeblock_controller_ticks_total",
	Help: "Number of clock ticks processed by refresh controllers",
})
