package service

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("agentmail/internal/service")
