package observability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"footycards/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// Config selects the metric exporter
type Config struct {
	Exporter       string
	OTLPEndpoint   string
	ServiceName    string
	Environment    string
	ExportInterval time.Duration
}

// MetricsProvider records gameplay metrics from domain events
type MetricsProvider struct {
	config        Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	enabled       bool
	mu            sync.RWMutex

	dropsCounter        metric.Int64Counter
	burnsCounter        metric.Int64Counter
	tradesCounter       metric.Int64Counter
	tradesActive        metric.Int64UpDownCounter
	poolRefreshCounter  metric.Int64Counter
	poolRefreshDuration metric.Float64Histogram
	poolSize            metric.Int64Gauge
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg Config) *MetricsProvider {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "footycards"
	}
	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = time.Minute
	}
	return &MetricsProvider{config: cfg}
}

// Initialize sets up the exporter named in the config. "none" leaves
// recording disabled.
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch strings.ToLower(mp.config.Exporter) {
	case "", ExporterNone:
		log.Info("Metrics export disabled")
		return nil

	case ExporterStdout:
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}

	case ExporterOTLP:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}

	default:
		return fmt.Errorf("unknown metrics exporter: %s", mp.config.Exporter)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(mp.config.ExportInterval))
	if err := mp.InitializeWithReader(reader); err != nil {
		return err
	}

	log.WithField("exporter", mp.config.Exporter).Info("Metrics provider initialized")
	return nil
}

// InitializeWithReader wires the provider to an explicit reader
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.enabled {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.ServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("footycards")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	mp.enabled = true
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.dropsCounter, err = mp.meter.Int64Counter(DropsTotal,
		metric.WithDescription("Cards drawn and saved, by rarity"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create drops counter: %w", err)
	}

	mp.burnsCounter, err = mp.meter.Int64Counter(BurnsTotal,
		metric.WithDescription("Cards permanently deleted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create burns counter: %w", err)
	}

	mp.tradesCounter, err = mp.meter.Int64Counter(TradesTotal,
		metric.WithDescription("Trade lifecycle transitions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create trades counter: %w", err)
	}

	mp.tradesActive, err = mp.meter.Int64UpDownCounter(TradesActive,
		metric.WithDescription("Pending trade proposals"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active trades gauge: %w", err)
	}

	mp.poolRefreshCounter, err = mp.meter.Int64Counter(PoolRefreshTotal,
		metric.WithDescription("Player pool refreshes, by source"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool refresh counter: %w", err)
	}

	mp.poolRefreshDuration, err = mp.meter.Float64Histogram(PoolRefreshDuration,
		metric.WithDescription("Duration of player pool refreshes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool refresh histogram: %w", err)
	}

	mp.poolSize, err = mp.meter.Int64Gauge(PoolSize,
		metric.WithDescription("Players in the current pool"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool size gauge: %w", err)
	}

	return nil
}

// Attach subscribes the provider to the domain events it measures
func (mp *MetricsProvider) Attach(bus *events.Bus) {
	bus.SubscribeAll(events.AllEventTypes, mp.HandleEvent)
}

// HandleEvent is an events.Handler
func (mp *MetricsProvider) HandleEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.CardDroppedEvent:
		mp.dropsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelRarity, string(e.Rarity)),
		))

	case events.CardBurnedEvent:
		mp.burnsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelRarity, string(e.Rarity)),
		))

	case events.TradeEvent:
		mp.tradesCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelOutcome, strings.TrimPrefix(string(e.EventType), "trade_")),
		))
		if e.EventType == events.EventTypeTradeProposed {
			mp.tradesActive.Add(ctx, 1)
		} else {
			mp.tradesActive.Add(ctx, -1)
		}

	case events.PlayerPoolRefreshedEvent:
		attrs := metric.WithAttributes(
			attribute.String(LabelSource, e.Source),
			attribute.String(LabelStale, strconv.FormatBool(e.Stale)),
		)
		mp.poolRefreshCounter.Add(ctx, 1, attrs)
		mp.poolRefreshDuration.Record(ctx, e.Duration.Seconds(), attrs)
		mp.poolSize.Record(ctx, int64(e.Size))
	}
}

// Shutdown flushes and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.enabled
}
