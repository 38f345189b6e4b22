package station

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climate_station_readings_ingested_total",
		Help: "Total readings accepted into the live window",
	})

	decodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climate_station_decode_failures_total",
		Help: "Total inbound payloads dropped as undecodable",
	})

	storeWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climate_station_store_write_failures_total",
		Help: "Total readings that could not be persisted",
	})

	commandPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climate_station_command_publish_failures_total",
		Help: "Total viewer commands that could not be republished",
	})

	viewersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "climate_station_viewers_connected",
		Help: "Number of currently attached viewers",
	})
)
