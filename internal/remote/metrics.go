package remote

import "github.com/prometheus/client_golang/prometheus"

var (
	execTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convertd",
			Subsystem: "remote",
			Name:      "exec_total",
			Help:      "Commands executed inside service containers",
		},
		[]string{"service", "result"},
	)

	copyBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convertd",
			Subsystem: "remote",
			Name:      "copy_bytes_total",
			Help:      "Archive bytes copied into service containers",
		},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(execTotal, copyBytesTotal)
}

func execResultLabel(res ExecResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.OK():
		return "ok"
	default:
		return "nonzero"
	}
}
