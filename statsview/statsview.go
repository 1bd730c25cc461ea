// This file is part of dwdebug.
//
// dwdebug is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dwdebug is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dwdebug.  If not, see <https://www.gnu.org/licenses/>.

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is the address used when Launch() is called with an empty
// address.
const DefaultAddress = "localhost:4243"

const url = "/debug/statsview"

// Server is a running statsview instance.
type Server struct {
	mgr *statsview.ViewManager
}

// Launch a new goroutine running the statsview. The URL of the statistics
// page is written to output.
func Launch(output io.Writer, address string) *Server {
	if address == "" {
		address = DefaultAddress
	}

	viewer.SetConfiguration(viewer.WithAddr(address))
	srv := &Server{mgr: statsview.New()}
	go srv.mgr.Start()

	fmt.Fprintf(output, "stats server available at %s%s\n", address, url)

	return srv
}

// Stop the statsview server.
func (srv *Server) Stop() {
	srv.mgr.Stop()
}
