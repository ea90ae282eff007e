// Command headless runs the testbed for a fixed number of frames without a
// window and reports frame and draw statistics.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/spaghettifunk/kalsengi/engine"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/testbed"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the engine configuration")
	frames := flag.Int("frames", 600, "number of frames to run")
	step := flag.Duration("step", time.Second/60, "simulated frame time")
	flag.Parse()

	config := engine.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		if config, err = engine.LoadConfig(*configPath); err != nil {
			core.LogFatal("failed to load %s: %s", *configPath, err)
		}
	}
	config.Renderer = "headless"
	// nothing edits shaders during a benchmark
	config.HotReload = false

	tb := testbed.NewTestGame(config)
	backend := headless.New(headless.WithCallLog(false))
	e, err := engine.NewWithBackend(tb.Game, backend)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if err := e.Initialize(); err != nil {
		core.LogFatal("failed to initialize: %s", err)
	}

	dt := step.Seconds()
	start := time.Now()
	for i := 0; i < *frames && e.IsRunning(); i++ {
		if err := e.Frame(dt); err != nil {
			core.LogError("frame %d failed: %s", i, err)
			break
		}
	}
	elapsed := time.Since(start)

	totals := backend.Totals()
	n := backend.Frames()
	if n > 0 {
		core.LogInfo("%d frames in %s (%.1f fps wall clock, %.1f fps simulated)",
			n, elapsed, float64(n)/elapsed.Seconds(), e.Metrics().FPS())
		core.LogInfo("per frame: %.1f draw calls, %.1f program binds, %.0f vertices",
			float64(totals.DrawCalls)/float64(n), float64(totals.ProgramBinds)/float64(n), float64(totals.Vertices)/float64(n))
	}

	if err := e.Shutdown(); err != nil {
		core.LogFatal(err.Error())
	}
}
