package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
)

// DecodeBody decodes and validates the json body of r into T. Each prepare
// func runs between decoding and validation. On failure a 400 is written and
// ok is false.
func DecodeBody[T any](
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	validate *validator.Validate,
	prepare ...func(*T),
) (T, bool) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "decoding request body").Logger()

	var body T
	logger.Trace().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		WriteFailed(c, w, http.StatusBadRequest, err)
		return body, false
	}
	logger.Trace().Msg("decoded request body")
	for _, fn := range prepare {
		fn(&body)
	}

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := validate.StructCtx(c, body); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		WriteFailed(c, w, http.StatusBadRequest, err)
		return body, false
	}
	logger.Trace().Msg("validated request body")

	return body, true
}

// PathUUID parses the mux path variable key as a uuid, writing a 400 when it
// is malformed.
func PathUUID(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	key string,
) (uuid.UUID, bool) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "parsing "+key).Logger()

	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		err = fmt.Errorf("failed parsing %s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		WriteFailed(c, w, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}
