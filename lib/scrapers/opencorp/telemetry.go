package opencorp

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/opencorp")
