package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given a manager built with options", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(
			WithNamespace("test_ns"),
			WithHistogramBuckets([]float64{1, 10}),
			WithRefreshInterval(3*time.Second),
			WithPrometheusRegistry(registry),
		)

		Convey("Then the options are applied", func() {
			So(manager.namespace, ShouldEqual, "test_ns")
			So(manager.histogramBuckets, ShouldResemble, []float64{1, 10})
			So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
		})

		Convey("Then metrics register on the given registry under the namespace", func() {
			manager.httpRequests.WithLabelValues("health", "GET", "200").Inc()
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if f.GetName() == "test_ns_api_http_requests_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("Given empty option values", t, func() {
		manager := NewManager(
			WithNamespace(""),
			WithHistogramBuckets(nil),
			WithRefreshInterval(0),
			WithPrometheusRegistry(prometheus.NewRegistry()),
		)

		Convey("Then defaults are kept", func() {
			So(manager.namespace, ShouldEqual, "pipedash")
			So(manager.histogramBuckets, ShouldNotBeEmpty)
			So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))
		manager.panicsRecovered.Inc()

		Convey("Then nothing lands on the configured registry", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(families, ShouldBeEmpty)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given a manager configured at startup", t, func() {
		defer Init()

		m := Init(
			WithNamespace("ops"),
			WithHistogramBuckets([]float64{1, 5}),
			WithRefreshInterval(250*time.Millisecond),
		)

		Convey("Then it becomes the global manager on a fresh registry", func() {
			So(Get(), ShouldEqual, m)
			So(Get().RefreshInterval(), ShouldEqual, 250*time.Millisecond)

			RecordHTTPRequestDuration("health", "GET", "200", 3)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			var buckets int
			for _, f := range families {
				So(f.GetName(), ShouldStartWith, "ops_")
				if f.GetName() == "ops_api_http_request_duration_milliseconds" {
					buckets = len(f.GetMetric()[0].GetHistogram().GetBucket())
				}
			}
			So(buckets, ShouldEqual, 2)
		})
	})

	Convey("Given the defaults restored", t, func() {
		Init()
		RecordPanicRecovered()

		Convey("Then the default namespace is back", func() {
			So(sampleValue("pipedash_api_panics_recovered_total", nil), ShouldEqual, 1.0)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording provider reads", func() {
			labels := map[string]string{"operation": "summary", "outcome": OutcomeTimeout}
			before := sampleValue("pipedash_api_provider_reads_total", labels)
			RecordProviderRead("summary", OutcomeTimeout, 12)

			Convey("Then the counter advances", func() {
				So(sampleValue("pipedash_api_provider_reads_total", labels)-before, ShouldEqual, 1)
			})
		})

		Convey("When recording clamps and fallbacks", func() {
			labels := map[string]string{"bound": "max"}
			before := sampleValue("pipedash_api_limit_clamped_total", labels)
			RecordLimitClamped("max")
			RecordAssetFallback()
			RecordPanicRecovered()

			So(sampleValue("pipedash_api_limit_clamped_total", labels)-before, ShouldEqual, 1)
			So(sampleValue("pipedash_site_index_fallbacks_total", nil), ShouldBeGreaterThan, 0)
		})

		Convey("When recording HTTP and system metrics", func() {
			RecordHTTPRequest("health", "GET", "200")
			RecordHTTPRequestDuration("health", "GET", "200", 1.5)
			RecordErrorByType("client_error", "medium")
			RecordErrorByEndpoint("predictions", "GET", "client_error")
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(7)
			RecordSystemGCPauseTime(0.3)

			Convey("Then they are exposed by the custom registry", func() {
				So(sampleValue("pipedash_api_system_goroutine_count", nil), ShouldEqual, 7)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "pipedash_api_http_requests_total")
				So(joined, ShouldContainSubstring, "pipedash_api_system_memory_usage_bytes")
			})
		})
	})
}

// sampleValue returns the counter or gauge value of the first series of name
// on the global registry whose labels include want.
func sampleValue(name string, want map[string]string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range want {
				if got[k] != v {
					match = false
				}
			}
			if !match {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}
