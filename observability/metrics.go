package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SectionChangesTotal counts effective section mutations by section type
	SectionChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gosln_section_changes_total",
			Help: "Total number of section mutations by section type",
		},
		[]string{"section_type"},
	)

	// SolutionParsesTotal counts solution file parses by status
	SolutionParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gosln_solution_parses_total",
			Help: "Total number of solution file parses by status",
		},
		[]string{"status"}, // success, failure
	)

	// SectionsParsedTotal counts sections read from solution files
	SectionsParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gosln_sections_parsed_total",
			Help: "Total number of sections read from solution files by kind",
		},
		[]string{"kind"}, // global, project
	)
)

// RecordSectionChange increments SectionChangesTotal for sectionType.
func RecordSectionChange(sectionType string) {
	SectionChangesTotal.WithLabelValues(sectionType).Inc()
}

// RecordSolutionParse records the outcome of a solution parse.
func RecordSolutionParse(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	SolutionParsesTotal.WithLabelValues(status).Inc()
}

// WriteMetricsFile writes all registered metrics to path in the Prometheus
// text exposition format, for the node_exporter textfile collector.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
