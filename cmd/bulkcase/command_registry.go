package main

import (
	"errors"
	"slices"
	"strings"
)

// argMode says whether a command takes arguments.
type argMode int

const (
	argsNone     argMode = iota // bare word only
	argsOptional                // bare word, or word followed by arguments
	argsRequired                // word followed by arguments
)

// command is one REPL verb. complete classifies the argument text for tab
// completion; nil completes nothing.
type command struct {
	name     string
	args     argMode
	usage    string
	run      func(args string) error
	complete func(args string) (completionContext, string)
	alias    bool
}

// match reports whether lower (the lower-cased line) invokes c, and the
// offset at which its arguments start.
func (c command) match(lower string) (int, bool) {
	if lower == c.name {
		return len(c.name), true
	}
	if c.args != argsNone && strings.HasPrefix(lower, c.name+" ") {
		return len(c.name) + 1, true
	}
	return 0, false
}

// invoke runs c with the arguments of line.
func (c command) invoke(line string, at int) error {
	args := line[at:]
	if c.args == argsRequired && strings.TrimSpace(args) == "" {
		return errors.New("usage: " + c.usage)
	}
	return c.run(args)
}

func bare(f func() error) func(string) error { return func(string) error { return f() } }

func quiet(f func()) func(string) error {
	return func(string) error { f(); return nil }
}

func (s *Session) initCommands() {
	s.commands = []command{
		{name: "sql", run: bare(s.cmdSQL)},
		{name: "staged", run: bare(s.cmdStaged)},
		{name: "tables", run: bare(s.cmdTables)},
		{name: "status", run: quiet(s.cmdStatus)},
		{name: "help", run: quiet(s.cmdHelp)},

		{name: "table", args: argsRequired, usage: "table <name> [pk=<col>] [<col>[:<type>] ...]", run: s.cmdTable, complete: completeTableArgs},
		{name: "t", args: argsRequired, usage: "t <name> [pk=<col>] [<col>[:<type>] ...]", run: s.cmdTable, alias: true},

		{name: "stage", args: argsRequired, usage: "stage <table> <pk> <col> = <expr>[, ...]", run: s.cmdStage, complete: completeStageArgs},
		{name: "unstage", args: argsOptional, run: s.cmdUnstage, complete: completeTableArgs},
		{name: "batch", args: argsRequired, usage: "batch <n> (0 sizes batches to the parameter limit)", run: s.cmdBatch},
		{name: "flush", run: bare(s.cmdFlush)},

		{name: "connect", args: argsOptional, run: s.cmdConnect},
		{name: "disconnect", run: bare(s.cmdDisconnect)},
		{name: "show", args: argsRequired, usage: "show <table> [where <condition>]", run: s.cmdShow, complete: completeTableArgs},
		{name: "raw", args: argsRequired, usage: "raw <sql>", run: s.cmdRaw},

		{name: "engine", args: argsRequired, usage: "engine <postgres|mysql|sqlite>", run: s.cmdEngine, complete: completeEngineArgs},
		{name: "plugin", args: argsRequired, usage: "plugin <name> [args] | plugin off [name]", run: s.cmdPlugin, complete: completePluginArgs},
		{name: "plugins", run: quiet(s.cmdPlugins)},
	}
}

// lookup finds the command line invokes.
func (s *Session) lookup(line string) (command, int, bool) {
	lower := strings.ToLower(line)
	for _, c := range s.commands {
		if at, ok := c.match(lower); ok {
			return c, at, true
		}
	}
	return command{}, 0, false
}

// commandNames lists the completable command words. exit and quit belong
// to the REPL loop rather than the registry.
func (s *Session) commandNames() []string {
	names := []string{"exit", "quit"}
	for _, c := range s.commands {
		if !c.alias {
			names = append(names, c.name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// completeTableArgs completes a single table-name argument.
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimLeft(args, " ")
	if strings.Contains(arg, " ") {
		return contextNone, ""
	}
	return contextTableName, arg
}

// completeStageArgs completes the table name, then the table's columns
// after the key and after each comma.
func completeStageArgs(args string) (completionContext, string) {
	words := strings.Fields(args)
	idx, partial := len(words), ""
	if !strings.HasSuffix(args, " ") && len(words) > 0 {
		idx--
		partial = words[idx]
	}
	switch {
	case idx == 0:
		return contextTableName, partial
	case idx == 1:
		return contextNone, ""
	case idx == 2 || strings.HasSuffix(words[idx-1], ","):
		return contextColumn, partial
	}
	if strings.Contains(partial, ",") {
		return contextColumn, lastToken(partial)
	}
	return contextNone, ""
}

func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completePluginArgs offers plugin names, or after "off" the enabled ones.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[len("off "):])
	}
	arg := strings.TrimSpace(args)
	if strings.Contains(arg, " ") {
		return contextNone, ""
	}
	return contextPlugin, arg
}
