package observability

const (
	MetricPrefix = "footycards"
)

// Metric names
const (
	DropsTotal = MetricPrefix + ".drops.total"
	BurnsTotal = MetricPrefix + ".burns.total"

	TradesTotal  = MetricPrefix + ".trades.total"
	TradesActive = MetricPrefix + ".trades.active"

	PoolRefreshTotal    = MetricPrefix + ".pool.refresh_total"
	PoolRefreshDuration = MetricPrefix + ".pool.refresh_duration"
	PoolSize            = MetricPrefix + ".pool.size"
)

// Label keys
const (
	LabelRarity  = "rarity"
	LabelOutcome = "outcome"
	LabelSource  = "source"
	LabelStale   = "stale"
)

// Exporter types
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)
