package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/restartfu/gophig"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"github.com/tasforge/tasforge/objective"
	"github.com/tasforge/tasforge/optimizer"
	"github.com/tasforge/tasforge/remote"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/settings"
	"github.com/tasforge/tasforge/sim"
	"github.com/tasforge/tasforge/strafesim"
)

type config struct {
	Script struct {
		Path    string
		OutPath string
	}
	Search settings.Settings
	Remote struct {
		// Mode selects how candidates are simulated: "local" in-process on
		// the control loop, "pool" on an in-process worker pool, "hub" on
		// workers connected over websocket, or "worker" to serve a hub.
		Mode string
		// Addr is the listen address in hub mode and the hub's websocket
		// URL (ws://host:port/worker) in worker mode.
		Addr string
	}
}

func main() {
	logger := logrus.New()
	c := readConfig()

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
	}

	phys := strafesim.New()
	start := sim.Frame{
		Parameters: sim.DefaultParameters(),
		State:      sim.PlayerState{OnGround: true},
	}

	if c.Remote.Mode == "worker" {
		runWorker(logger, phys, start, c.Remote.Addr)
		return
	}

	f, err := os.Open(c.Script.Path)
	if err != nil {
		logger.Fatalf("opening script: %v", err)
	}
	s, err := script.Parse(f)
	_ = f.Close()
	if err != nil {
		logger.Fatalf("parsing script: %v", err)
	}

	// The state entering the searched body is the prefix simulated from
	// the script start.
	l, _, err := s.Locate(c.Search.FirstFrame)
	if err != nil {
		logger.Fatalf("locating first frame: %v", err)
	}
	prior, err := sim.RunAll(phys, []sim.Frame{start}, s.Lines[:l])
	if err != nil {
		logger.Fatalf("simulating prefix: %v", err)
	}
	initial := prior[len(prior)-1]

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ed, err := optimizer.New(logger, s, c.Search.FirstFrame, initial, rng, optimizer.Params{
		Temperature:   c.Search.Temperature,
		CoolingRate:   c.Search.CoolingRate,
		MaxIterations: c.Search.MaxIterations,
	})
	if err != nil {
		logger.Fatalf("creating editor: %v", err)
	}

	obj := objective.Speed{}
	opts := optimizer.SearchOptions{
		FrameLimit:          c.Search.FrameLimit,
		MutationsPerAttempt: c.Search.MutationsPerAttempt,
		SingleFrame:         c.Search.SingleFrame,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Second / 100)
	defer ticker.Stop()

	switch c.Remote.Mode {
	case "pool":
		pool := remote.NewPool(logger, phys, start, c.Search.Workers)
		defer pool.Close()
		runCoordinator(remote.NewCoordinator(logger, ed, pool, obj, opts), ticker, stop)
	case "hub":
		hub := remote.NewHub(logger)
		defer hub.Close()
		http.HandleFunc("/worker", hub.HandleWorker)
		go func() {
			if err := http.ListenAndServe(c.Remote.Addr, nil); err != nil {
				logger.Fatalf("hub listen: %v", err)
			}
		}()
		logger.Infof("hub listening on %s", c.Remote.Addr)
		runCoordinator(remote.NewCoordinator(logger, ed, hub, obj, opts), ticker, stop)
	default:
		search, err := ed.Optimize(phys, obj, opts)
		if err != nil {
			logger.Fatalf("starting search: %v", err)
		}
		if search == nil {
			logger.Fatalf("script has no searchable frames")
		}
	loop:
		for {
			select {
			case <-stop:
				break loop
			case <-ticker.C:
				if result, err := search.Step(); err != nil {
					logger.Debugf("attempt discarded: %v", err)
				} else if result.Kind == objective.Better {
					logger.Infof("improvement: %s", result.Value)
				}
			}
		}
	}

	if err := ed.Minimize(phys); err != nil {
		logger.Errorf("minimize: %v", err)
	}
	out, err := os.Create(c.Script.OutPath)
	if err != nil {
		logger.Fatalf("creating output: %v", err)
	}
	defer out.Close()
	if err := ed.Save(out); err != nil {
		logger.Fatalf("saving script: %v", err)
	}
	logger.Infof("saved optimized script to %s", c.Script.OutPath)
}

func runCoordinator(coord *remote.Coordinator, ticker *time.Ticker, stop chan os.Signal) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			coord.Step()
		}
	}
}

func runWorker(logger *logrus.Logger, phys sim.Physics, start sim.Frame, addr string) {
	wk := remote.NewWorker(logger, phys, start)
	for {
		if err := wk.Run(addr); err != nil {
			logger.Errorf("worker: %v", err)
		}
		time.Sleep(5 * time.Second)
	}
}

func readConfig() config {
	var c config
	if _, err := os.Stat("config.toml"); os.IsNotExist(err) {
		if err := gophig.SetConfComplex("config.toml", gophig.TOMLMarshaler{}, c, 0777); err != nil {
			log.Fatalf("error creating config: %v", err)
		}
	}
	if err := gophig.GetConfComplex("config.toml", gophig.TOMLMarshaler{}, &c); err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	if c.Script.Path == "" {
		c.Script.Path = "script.tf"
	}
	if c.Script.OutPath == "" {
		c.Script.OutPath = "script_optimized.tf"
	}
	if c.Remote.Mode == "" {
		c.Remote.Mode = "local"
	}
	if c.Remote.Addr == "" {
		c.Remote.Addr = "0.0.0.0:19300"
	}
	c.Search = c.Search.Fill()
	if err := gophig.SetConfComplex("config.toml", gophig.TOMLMarshaler{}, c, 0777); err != nil {
		log.Fatalf("error writing config file: %v", err)
	}
	return c
}
