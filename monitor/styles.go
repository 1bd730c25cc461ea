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

package monitor

import "github.com/charmbracelet/lipgloss"

type styles struct {
	prompt     lipgloss.Style
	cpu        lipgloss.Style
	mem        lipgloss.Style
	err        lipgloss.Style
	breakpoint lipgloss.Style
	info       lipgloss.Style
}

// ANSI Color reference
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 7	White
func newStyles(color bool) styles {
	if !color {
		s := lipgloss.NewStyle()
		return styles{prompt: s, cpu: s, mem: s, err: s, breakpoint: s, info: s}
	}

	return styles{
		prompt:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		cpu:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		mem:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(5)),
		err:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		breakpoint: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		info:       lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
	}
}
