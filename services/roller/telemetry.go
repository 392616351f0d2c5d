package roller

import (
	"ligmir-backend/lib/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = telemetry.Tracer("ligmir.services.roller")

var meter = otel.Meter("ligmir.services.roller")
var rejectedTasks, _ = meter.Int64Counter("webhook_tasks_rejected")
