package fetch

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("lib/fetch")
var meter = otel.Meter("lib/fetch")

var downloadedBytes, _ = meter.Int64Counter("downloaded_bytes", metric.WithUnit("By"))
var failedDownloads, _ = meter.Int64Counter("failed_downloads")
