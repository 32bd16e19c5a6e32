package stats

import (
	"expvar"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// expvar maps are registered globally, so a single updater instance is shared
// across the subtests.
func TestStatsUpdater(t *testing.T) {
	mux := http.NewServeMux()
	su := NewStatsUpdater(mux)
	assert.NotNil(t, su, "expected StatsUpdater to be non-nil")
	assert.NotNil(t, su.updateChan, "expected updateChan to be initialized")

	handler, pattern := mux.Handler(&http.Request{URL: &url.URL{Path: "/debug/vars"}, Method: http.MethodGet})
	assert.NotNil(t, handler, "expected handler for /debug/vars to be set")
	assert.Equal(t, "GET /debug/vars", pattern, "expected handler to be registered for GET method on /debug/vars")

	t.Run("register and update metric", func(t *testing.T) {
		su.RegisterMetric("TestMetric")
		metric := su.vars.Get("TestMetric")
		assert.NotNil(t, metric, "expected metric to be registered")

		su.Run()
		defer su.Stop()

		su.Incr("TestMetric")
		su.Incr("TestMetric")
		su.Decr("TestMetric")

		assert.Eventually(t, func() bool {
			return metric.(*expvar.Int).Value() == 1
		}, time.Second, 10*time.Millisecond, "expected metric to settle at 1")
	})
}
