package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/raffa/internal/constants"
)

var Tracer = otel.Tracer(constants.AppMain)
