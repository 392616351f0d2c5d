package charsheet

import "ligmir-backend/lib/telemetry"

var tracer = telemetry.Tracer("ligmir.services.charsheet")
