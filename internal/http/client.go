package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
)

// UpstreamError carries the envelope of a non 2xx upstream response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded statusCode=%d message=%s", e.StatusCode, e.Message)
}

// DoJson sends body as json to url through the otel instrumented client and
// returns the data field of the response envelope.
func DoJson[T any](c context.Context, method string, url string, body any) (T, error) {
	c, span := otel.Tracer.Start(c, "http DoJson")
	defer span.End()

	var data T

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "http DoJson").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURL, url).
		Logger()

	var reader io.Reader
	if body != nil {
		logger = logger.With().Str(log.KeyProcess, "encoding request body").Logger()
		logger.Trace().Msg("encoding request body")
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return data, err
		}
		reader = buf
		logger.Trace().Msg("encoded request body")
	}

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	logger.Info().Msg("sending request")
	req, err := http.NewRequestWithContext(c, method, url, reader)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return data, err
	}
	req.Header.Set(KeyHeaderContentType, ValueHeaderApplicationJson)
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(KeyHeaderRequestID, requestID)
	}
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return data, err
	}
	defer resp.Body.Close()
	logger.Info().Int("statusCode", resp.StatusCode).Msg("sent request")

	logger = logger.With().Str(log.KeyProcess, "decoding response body").Logger()
	envelope := Response[T]{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return data, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = &UpstreamError{StatusCode: resp.StatusCode, Message: envelope.Message}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return data, err
	}
	logger.Info().Msg("decoded response body")

	return envelope.Data, nil
}
