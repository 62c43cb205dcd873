// Package monitoring turns a running simulation into a small HTTP server so
// that its progress can be observed from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"

	"github.com/flowsim/flowsim/sim"
)

// Monitor exposes the state of a simulation over HTTP.
type Monitor struct {
	engine     sim.Engine
	scheduler  sim.Scheduler
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitoring server. Ports below
// 1000 are rejected and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterScheduler registers the process scheduler of the simulation.
func (m *Monitor) RegisterScheduler(s sim.Scheduler) {
	m.scheduler = s
}

// StartServer starts the monitoring server and opens it in a browser.
func (m *Monitor) StartServer() {
	listener, err := net.Listen("tcp",
		fmt.Sprintf(":%d", m.portNumber))
	if err != nil {
		panic(err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.serveNow)
	r.HandleFunc("/api/processes", m.serveProcesses)
	r.HandleFunc("/api/host", m.serveHost)
	http.Handle("/", r)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)
	go func() {
		if err := browser.OpenURL(url); err != nil {
			logrus.WithError(err).Debug("cannot open browser")
		}
	}()

	go func() {
		if err := http.Serve(listener, nil); err != nil {
			logrus.WithError(err).Error("monitoring server stopped")
		}
	}()
}

func (m *Monitor) serveNow(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]float64{
		"now": float64(m.engine.CurrentTime()),
	})
}

func (m *Monitor) serveProcesses(w http.ResponseWriter, _ *http.Request) {
	names := m.scheduler.LiveProcesses()
	sort.Strings(names)
	writeJSON(w, names)
}

// serveHost reports resource usage of the simulation process itself.
func (m *Monitor) serveHost(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, _ := proc.CPUPercent()
	memInfo, _ := proc.MemoryInfo()

	out := map[string]any{
		"cpu_percent": cpuPercent,
	}
	if memInfo != nil {
		out["rss_bytes"] = memInfo.RSS
	}

	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
