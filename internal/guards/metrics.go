package guards

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricScrubbed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "guards_parroting_scrubbed_total",
	Help: "Generated replies that had a reflective stem stripped.",
})
