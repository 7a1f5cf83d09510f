package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SequenceRuns counts sequencer runs by target and outcome
	// (started, completed, cancelled, aborted).
	SequenceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haze_sequence_runs_total",
			Help: "Sequencer runs by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	// TypedRunes counts runes written by the typer.
	TypedRunes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "haze_typed_runes_total",
			Help: "Runes revealed by the character typer",
		},
	)

	// RainFrames counts rendered rain frames.
	RainFrames = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "haze_rain_frames_total",
			Help: "Frames computed by the rain animation",
		},
	)

	// RainColumns tracks the current number of rain columns.
	RainColumns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "haze_rain_columns",
			Help: "Current number of rain columns",
		},
	)

	// WidgetActivations counts lazy widget initializations per region.
	WidgetActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haze_widget_activations_total",
			Help: "Lazy widget initializations by region",
		},
		[]string{"region"},
	)

	// SequenceMatches counts completed input sequences.
	SequenceMatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "haze_input_sequence_matches_total",
			Help: "Completed input sequence matches",
		},
	)

	// ShellCommands counts fake shell commands by result
	// (known, builtin, unknown, empty).
	ShellCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haze_shell_commands_total",
			Help: "Fake shell commands by result",
		},
		[]string{"result"},
	)

	// DatasetLoads counts dataset fetch attempts by source and outcome.
	DatasetLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haze_dataset_loads_total",
			Help: "Dataset fetch attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(SequenceRuns)
	prometheus.MustRegister(TypedRunes)
	prometheus.MustRegister(RainFrames)
	prometheus.MustRegister(RainColumns)
	prometheus.MustRegister(WidgetActivations)
	prometheus.MustRegister(SequenceMatches)
	prometheus.MustRegister(ShellCommands)
	prometheus.MustRegister(DatasetLoads)
}
