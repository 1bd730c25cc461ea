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

package logger

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colorizer applies basic coloring rules to the output of the log. The first
// line of each write is left alone. Any subsequent lines are faded so that
// the heading of a multi-line entry stands out.
//
// Colorizer is used when echoing the log to a terminal.
type Colorizer struct {
	out   io.Writer
	faded lipgloss.Style
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{
		out:   out,
		faded: lipgloss.NewStyle().Faint(true).Foreground(lipgloss.ANSIColor(1)),
	}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (n int, err error) {
	l := strings.Split(strings.TrimSpace(string(p)), "\n")
	if len(l) == 0 {
		return 0, nil
	}

	m, err := io.WriteString(c.out, l[0]+"\n")
	n += m
	if err != nil {
		return n, err
	}

	for _, s := range l[1:] {
		m, err := io.WriteString(c.out, c.faded.Render(s)+"\n")
		n += m
		if err != nil {
			return n, err
		}
	}

	return n, nil
}
