package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"courtside/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COURTSIDE_CONFIG", "")

	convey.Convey("Given no file and no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then the defaults should be returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DBPath, convey.ShouldEqual, "courtside.db")
			convey.So(cfg.AnalysisDelayMS, convey.ShouldEqual, 2000)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COURTSIDE_CONFIG", "")
	t.Setenv("COURTSIDE_ADDR", ":9191")
	t.Setenv("COURTSIDE_MAX_MONTHS_AHEAD", "6")
	t.Setenv("COURTSIDE_SEED_SAMPLES", "false")
	t.Setenv("COURTSIDE_CORS_ORIGINS", "https://app.courtside.app")

	convey.Convey("Given COURTSIDE_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then they should override the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9191")
			convey.So(cfg.MaxMonthsAhead, convey.ShouldEqual, 6)
			convey.So(cfg.SeedSamples, convey.ShouldBeFalse)
			convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"https://app.courtside.app"})
		})
	})
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	yamlContent := `
addr: ":7070"
db_path: "/var/lib/courtside/data.db"
analysis_stale_after_min: 30
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COURTSIDE_CONFIG", path)
	t.Setenv("COURTSIDE_ADDR", ":6060")

	convey.Convey("Given a YAML file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then env should win over the file and the file over defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			convey.So(cfg.DBPath, convey.ShouldEqual, "/var/lib/courtside/data.db")
			convey.So(cfg.AnalysisStaleAfterMin, convey.ShouldEqual, 30)
			convey.So(cfg.MaxMonthsAhead, convey.ShouldEqual, 3)
		})
	})
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("COURTSIDE_CONFIG", "")
	t.Setenv("COURTSIDE_ENV", "staging")

	convey.Convey("Given an unknown environment name", t, func() {
		_, err := config.Load(context.Background())

		convey.Convey("Then loading should fail validation", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("COURTSIDE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	convey.Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		convey.Convey("Then loading should fail", func() {
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}
