package youtube

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/api/googleapi"
)

// API call counters, labelled by Data API method and outcome.
var apiRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ytscraper_api_requests_total",
		Help: "YouTube Data API calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

func recordCall(method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var gerr *googleapi.Error
		if errors.Is(err, ErrQuotaExceeded) || (errors.As(err, &gerr) && gerr.Code == http.StatusForbidden) {
			outcome = "quota"
		}
	}
	apiRequests.WithLabelValues(method, outcome).Inc()
}
