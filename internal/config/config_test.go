package config_test

import (
	"testing"
	"time"

	"github.com/okian/pipedash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.APIPrefix, convey.ShouldEqual, "/api")
			convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderPlaceholder)
			convey.So(cfg.SPAFallback, convey.ShouldBeTrue)
			convey.So(cfg.ProviderTimeout(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.MetricsPath, convey.ShouldEqual, "/prometheus")
			convey.So(cfg.PostgresMaxConns, convey.ShouldEqual, 4)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "pipedash")
			convey.So(cfg.MetricsRefresh(), convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
