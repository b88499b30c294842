// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf splits console text into commands and runs them.
package cbuf

import (
	"github.com/pkg/errors"

	"quakeed/cmd"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrLoop           = errors.New("too many inserted commands")
)

// maxInserts bounds the text inserted during one Execute, aliases calling
// themselves would run forever otherwise.
const maxInserts = 1024

// Efunc reports whether it handled the command.
type Efunc func(*CommandBuffer, cmd.Arguments) (bool, error)

type CommandBuffer struct {
	text      string
	executors []Efunc
	inserts   int
}

// SetCommandExecutors sets the handlers tried in order for every command.
func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

func (c *CommandBuffer) AddText(text string) {
	c.text = c.text + text
}

// InsertText puts text in front of the remaining commands.
func (c *CommandBuffer) InsertText(text string) {
	c.inserts++
	c.text = text + "\n" + c.text
}

// Execute runs commands until the buffer is empty. Commands are separated by
// newlines or by ';' outside of quotes. The first failing command discards
// the rest of the buffer.
func (c *CommandBuffer) Execute() error {
	c.inserts = 0
	for len(c.text) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.text); i++ {
			switch c.text[i] {
			case '"':
				quote = !quote
				continue LineLoop
			case ';':
				if quote {
					continue LineLoop
				}
				break LineLoop
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.text[:i]
		// but remove this char as well
		if i < len(c.text) {
			i++
		}
		c.text = c.text[i:]
		if err := c.execute(line); err != nil {
			c.text = ""
			return err
		}
		if c.inserts > maxInserts {
			c.text = ""
			return ErrLoop
		}
	}
	return nil
}

func (c *CommandBuffer) execute(s string) error {
	a := cmd.Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	for _, e := range c.executors {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownCommand, "%q", args[0].String())
}
