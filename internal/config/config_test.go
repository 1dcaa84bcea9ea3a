package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/tiki/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew_Defaults(t *testing.T) {
	Convey("Given a fresh config", t, func() {
		cfg := config.New(context.Background())

		Convey("Then the defaults describe a standard pitch and service", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.PitchLength, ShouldEqual, 105.0)
			So(cfg.PitchWidth, ShouldEqual, 68.0)
			So(cfg.GridCols, ShouldEqual, 12)
			So(cfg.GridRows, ShouldEqual, 8)
			So(cfg.EVHighThreshold, ShouldEqual, 0.05)
			So(cfg.EVSafeThreshold, ShouldEqual, 0.02)
			So(cfg.ShotRange, ShouldEqual, 30.0)
			So(cfg.FrameQueueSize, ShouldEqual, 10_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.MaxMomentsLimit, ShouldEqual, 100)
			So(cfg.MaxSimulationSteps, ShouldEqual, 20)
			So(cfg.OptionFilter, ShouldBeEmpty)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then loading yields the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.GridCols, ShouldEqual, 12)
		})
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIKI_ADDR", ":7070")
	t.Setenv("TIKI_SHOT_RANGE", "25")
	t.Setenv("TIKI_OPTION_FILTER", `kind != "dribble"`)

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.ShotRange, ShouldEqual, 25.0)
			So(cfg.OptionFilter, ShouldEqual, `kind != "dribble"`)

			Convey("And untouched fields keep their defaults", func() {
				So(cfg.PitchLength, ShouldEqual, 105.0)
			})
		})
	})
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiki.yaml")
	payload := []byte("addr: \":6060\"\ngrid_cols: 24\n")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("TIKI_CONFIG", path)

	Convey("Given a config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.GridCols, ShouldEqual, 24)
		})
	})
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiki.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("TIKI_CONFIG", path)
	t.Setenv("TIKI_ADDR", ":7070")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the env value wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("TIKI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("Given a broken file path", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("TIKI_PITCH_LENGTH", "-1")

	Convey("Given a negative pitch length", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects it", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoad_InvalidGrid(t *testing.T) {
	t.Setenv("TIKI_GRID_COLS", "0")

	Convey("Given a zero grid resolution", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects it", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
