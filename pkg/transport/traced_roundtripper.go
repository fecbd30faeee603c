package transport

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/telemetry"
	"github.com/luizaranda/go-browserkit/pkg/telemetry/tracing"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const _httpRequestMetric = "browserkit.http.client.request.time"

// TraceDecorator returns a decorator recording a New Relic external segment
// and a request timing metric per round trip.
func TraceDecorator() RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &TracedRoundTripper{Transport: base}
	}
}

// TracedRoundTripper records telemetry through pkg/telemetry, so the request
// context must carry a telemetry.Client for metrics to be emitted. The New
// Relic segment is only recorded when the context carries a transaction.
type TracedRoundTripper struct {
	Transport http.RoundTripper
}

func (t *TracedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// StartExternalSegment adds distributed tracing headers to req.
	segment := newrelic.StartExternalSegment(nil, req)
	segment.Procedure = segmentProcedure(req)

	start := time.Now()
	res, err := t.Transport.RoundTrip(req)
	if err != nil {
		segment.AddAttribute("error", err.Error())
	}
	segment.Response = res
	segment.End()

	recordResponse(req.Context(), tracedTags(req), start, res, err)

	return res, err
}

func tracedTags(req *http.Request) []string {
	tags := []string{
		"technology:go",
		"method:" + strings.ToLower(req.Method),
		"cache_mode:" + string(CacheModeFrom(req.Context())),
	}
	if target := tracing.TargetID(req.Context()); target != "" {
		tags = append(tags, "target_id:"+telemetry.SanitizeMetricTagValue(target))
	}
	return tags
}

func segmentProcedure(req *http.Request) string {
	if tpl := tracing.EndpointTemplate(req.Context()); tpl != "" {
		return req.Method + " " + tpl
	}
	if target := tracing.TargetID(req.Context()); target != "" {
		return req.Method + " " + target
	}
	return req.Method
}

func recordResponse(ctx context.Context, tags []string, start time.Time, res *http.Response, err error) {
	status, statusCode := "error", 0
	switch {
	case err == nil:
		status, statusCode = strconv.Itoa(res.StatusCode), res.StatusCode
		if res.Header.Get(XFromCache) != "" {
			tags = append(tags, "from_cache:true")
		}
	case os.IsTimeout(err):
		status = "timeout"
	}

	telemetry.Timing(ctx, _httpRequestMetric, time.Since(start), append(tags, "status:"+status, "status_class:"+telemetry.StatusClass(statusCode, err)))
}
