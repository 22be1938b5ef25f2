package mid

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ardanlabs/spvchain/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spvchain",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of API requests by method and status code.",
	}, []string{"method", "status"})
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spvchain",
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "Count of API requests that returned an error by method.",
	}, []string{"method"})
)

// Metrics updates program counters. A request failing with an error is
// counted before the error is turned into a response, its status is 0.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Call the next handler.
			err := handler(ctx, w, r)

			var status int
			if v, verr := web.GetValues(ctx); verr == nil {
				status = v.StatusCode
			}
			requestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()

			// Increment the errors counter if an error occurred on this request.
			if err != nil {
				errorsTotal.WithLabelValues(r.Method).Inc()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
