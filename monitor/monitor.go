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

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dwdebug/dwdebug/session"
	"golang.org/x/term"
)

// Monitor is an interactive console for a debug session.
type Monitor struct {
	sess   *session.Session
	out    io.Writer
	styles styles
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
// Output is styled if color is true.
func NewMonitor(sess *session.Session, out io.Writer, color bool) *Monitor {
	return &Monitor{
		sess:   sess,
		out:    out,
		styles: newStyles(color),
	}
}

// IsTerminal returns true if the file is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (m *Monitor) prompt() string {
	return m.styles.prompt.Render(fmt.Sprintf("[%s 0x%04x]", m.sess.Status(), uint32(m.sess.Next())*2)) + " "
}

// Run the monitor on the standard input until QUIT or the end of input. Line
// editing and history are only available if the standard input is a
// terminal. History is saved in historyFile if it is not empty.
func (m *Monitor) Run(historyFile string) error {
	if !IsTerminal(os.Stdin) {
		return m.RunScript(os.Stdin)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          m.prompt(),
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(m.prompt())

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if m.Exec(line) {
			return nil
		}
	}
}

// RunScript runs every line of the reader as a command until QUIT or the end
// of input. Blank lines and lines beginning with # are ignored.
func (m *Monitor) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m.Exec(line) {
			return nil
		}
	}
	return scanner.Err()
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commandList))
	for _, c := range commandList {
		items = append(items, readline.PcItem(c.name))
	}
	return readline.NewPrefixCompleter(items...)
}
