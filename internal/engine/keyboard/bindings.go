package keyboard

import (
	"fmt"
	"sort"

	"github.com/dshills/figurine/internal/input/key"
)

// Command is a discrete keyboard operation.
type Command uint8

const (
	CmdNone Command = iota
	CmdModeMove
	CmdModeResize
	CmdToggleLayout
	CmdReset
	CmdDelete
	CmdCancel
	CmdNudge
)

var commandNames = map[Command]string{
	CmdNone:         "none",
	CmdModeMove:     "mode-move",
	CmdModeResize:   "mode-resize",
	CmdToggleLayout: "toggle-layout",
	CmdReset:        "reset",
	CmdDelete:       "delete",
	CmdCancel:       "cancel",
	CmdNudge:        "nudge",
}

// String returns the command name used in configuration.
func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCommand parses a command name. Nudge is not bindable; it is driven
// by the arrow keys and the configured modifiers.
func ParseCommand(s string) (Command, bool) {
	for c, n := range commandNames {
		if n == s && c != CmdNone && c != CmdNudge {
			return c, true
		}
	}
	return CmdNone, false
}

// Bindings maps commands to key specifications such as "Alt+m".
type Bindings map[Command][]string

// DefaultBindings returns the stock bindings.
func DefaultBindings() Bindings {
	return Bindings{
		CmdModeMove:     {"Alt+m"},
		CmdModeResize:   {"Alt+r"},
		CmdToggleLayout: {"Alt+o"},
		CmdReset:        {"Alt+0"},
		CmdDelete:       {"Delete", "Backspace"},
		CmdCancel:       {"Escape"},
	}
}

// BindingsFromNames converts a name-keyed map as found in configuration.
func BindingsFromNames(m map[string][]string) (Bindings, error) {
	b := make(Bindings, len(m))
	for name, specs := range m {
		c, ok := ParseCommand(name)
		if !ok {
			return nil, fmt.Errorf("unknown command %q", name)
		}
		b[c] = append([]string(nil), specs...)
	}
	return b, nil
}

type binding struct {
	event   key.Event
	command Command
}

// compile parses every specification. Commands are walked in a fixed
// order so the first binding wins deterministically on conflicts.
func (b Bindings) compile() ([]binding, error) {
	cmds := make([]Command, 0, len(b))
	for c := range b {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })

	var out []binding
	for _, c := range cmds {
		for _, spec := range b[c] {
			ev, err := key.Parse(spec)
			if err != nil {
				return nil, fmt.Errorf("binding %s %q: %w", c, spec, err)
			}
			out = append(out, binding{event: ev, command: c})
		}
	}
	return out, nil
}
