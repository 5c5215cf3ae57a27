// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package module

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrEmptyCommand is returned when the command line holds no command name.
	ErrEmptyCommand = errors.New("empty command")
	// ErrUnknownCommand is returned when no handler is registered for a name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrCommandFailed is wrapped by handlers that ran but could not succeed.
	ErrCommandFailed = errors.New("command failed")
)

// helpCommand is answered by every dispatcher.
const helpCommand = "help"

// CommandFunc handles a single command. input is the command line with the
// command name and the separating whitespace removed.
type CommandFunc func(ctx context.Context, input string) (string, error)

// registeredCommand holds a handler together with the name it was
// registered under and its help text.
type registeredCommand struct {
	name string
	help string
	fn   CommandFunc
}

// Commands is a string command dispatcher. The zero value is ready to use.
type Commands struct {
	mu  sync.RWMutex
	all map[string]*registeredCommand
}

// Register adds a command handler. It panics when name is empty or already
// registered, since both are programmer errors.
func (c *Commands) Register(name string, fn CommandFunc, help string) {
	key := strings.ToLower(name)
	if key == "" {
		panic("command name must not be empty")
	}
	if key == helpCommand {
		panic("command 'help' is reserved")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.all == nil {
		c.all = make(map[string]*registeredCommand)
	}
	if _, exists := c.all[key]; exists {
		panic(fmt.Sprintf("command with name '%s' already registered", name))
	}
	slog.Debug("Registering command.", "name", name)
	c.all[key] = &registeredCommand{name: name, help: help, fn: fn}
}

// SendCommand splits line into a command name and its input and runs the
// matching handler.
func (c *Commands) SendCommand(ctx context.Context, line string) (string, error) {
	name, input := splitCommand(line)
	if name == "" {
		return "", ErrEmptyCommand
	}

	if strings.EqualFold(name, helpCommand) {
		return c.help(input)
	}

	c.mu.RLock()
	cmd, ok := c.all[strings.ToLower(name)]
	c.mu.RUnlock()
	if !ok {
		return "", unknown(name, append(c.Names(), helpCommand))
	}

	out, err := cmd.fn(ctx, input)
	if err != nil {
		if errors.Is(err, ErrCommandFailed) {
			return out, fmt.Errorf("command %s: %w", cmd.name, err)
		}
		return out, fmt.Errorf("command %s: %w: %w", cmd.name, ErrCommandFailed, err)
	}
	return out, nil
}

// Names returns the registered command names, sorted case-insensitively.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.all))
	for _, cmd := range c.all {
		names = append(names, cmd.name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

func (c *Commands) help(input string) (string, error) {
	target, _ := splitCommand(input)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if target != "" {
		if strings.EqualFold(target, helpCommand) {
			return helpUsage, nil
		}
		cmd, ok := c.all[strings.ToLower(target)]
		if !ok {
			names := make([]string, 0, len(c.all))
			for _, other := range c.all {
				names = append(names, other.name)
			}
			return "", unknown(target, names)
		}
		return cmd.help, nil
	}

	keys := make([]string, 0, len(c.all))
	for k := range c.all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", helpCommand, helpUsage)
	for _, k := range keys {
		cmd := c.all[k]
		fmt.Fprintf(&b, "%s - %s\n", cmd.name, cmd.help)
	}
	return b.String(), nil
}

const helpUsage = "Display help for all commands, or for the command named as argument"

// splitCommand separates the first whitespace delimited token from the rest.
// Exactly one separator is dropped; the input keeps any further whitespace.
func splitCommand(line string) (string, string) {
	line = strings.TrimLeft(line, " \t\r\n")
	idx := strings.IndexAny(line, " \t\r\n")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}
