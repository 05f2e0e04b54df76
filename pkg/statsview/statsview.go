// Package statsview serves live runtime statistics (heap, goroutines,
// GC pauses) of the emulator process as charts in the browser.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the default address of the stats server.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch a new goroutine running the statsview on addr, returning a
// function that stops it.
func Launch(output io.Writer, addr string) (stop func()) {
	if addr == "" {
		addr = Address
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server available at http://%s%s\n", addr, url)
	return mgr.Stop
}
