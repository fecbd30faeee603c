package requests

import (
	"context"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/internal"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
	"github.com/luizaranda/go-browserkit/pkg/telemetry/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	_instrumentationName = "github.com/luizaranda/go-browserkit/pkg/requests"
	_spanName            = "browserkit.requests"

	_requestCountMetric = "browserkit.requests.count"
	_requestTimeMetric  = "browserkit.requests.time"

	_cacheModeSpanAttribute = attribute.Key("browserkit.requests.cache")
	_fetchModeSpanAttribute = attribute.Key("browserkit.requests.mode")
	_endpointSpanAttribute  = attribute.Key("browserkit.requests.endpoint")
)

func newSpan(ctx context.Context, req *FetchRequest) (context.Context, trace.Span) {
	tracer := otel.Tracer(_instrumentationName, trace.WithInstrumentationVersion(internal.Version))

	ctx, span := tracer.Start(ctx, _spanName+" "+req.Options.Method, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(req.Options.Method),
		semconv.URLFull(req.URL),
		_cacheModeSpanAttribute.String(req.Options.Cache),
		_fetchModeSpanAttribute.String(req.Options.Mode),
	)
	if tpl := tracing.EndpointTemplate(ctx); tpl != "" {
		span.SetAttributes(_endpointSpanAttribute.String(tpl))
	}

	return ctx, span
}

func recordResponseAttributes(span trace.Span, res *FetchResponse, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(semconv.HTTPResponseStatusCode(res.StatusCode))
	if res.StatusCode >= 400 {
		span.SetStatus(codes.Error, "")
	}
}

func recordMetrics(ctx context.Context, method string, start time.Time, res *FetchResponse, err error) {
	statusCode := 0
	if res != nil {
		statusCode = res.StatusCode
	}

	tags := telemetry.Tags(
		"method", method,
		"status_class", telemetry.StatusClass(statusCode, err),
		"target_id", telemetry.SanitizeMetricTagValue(tracing.TargetID(ctx)),
	)

	telemetry.Incr(ctx, _requestCountMetric, tags)
	telemetry.Timing(ctx, _requestTimeMetric, time.Since(start), tags)
}
