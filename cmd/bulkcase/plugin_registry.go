package main

import (
	"slices"

	"github.com/bawdo/casebulk/plugins"
)

// plugin is an enabled transformer as the REPL tracks it.
type plugin struct {
	name   string
	build  func() plugins.Transformer // fresh instance per statement
	status func() string
}

// pluginRegistry keeps enabled plugins in the order they were first enabled,
// which is the order they transform statements in.
type pluginRegistry struct {
	entries []plugin
}

// enable adds p, or reconfigures it in place when already enabled.
func (r *pluginRegistry) enable(p plugin) {
	if i := r.index(p.name); i >= 0 {
		r.entries[i] = p
		return
	}
	r.entries = append(r.entries, p)
}

// disable removes the named plugin, or every plugin when name is empty. It
// reports false when the named plugin was not enabled.
func (r *pluginRegistry) disable(name string) bool {
	if name == "" {
		r.entries = nil
		return true
	}
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

func (r *pluginRegistry) index(name string) int {
	return slices.IndexFunc(r.entries, func(p plugin) bool { return p.name == name })
}

func (r *pluginRegistry) names() []string {
	out := make([]string, len(r.entries))
	for i, p := range r.entries {
		out[i] = p.name
	}
	return out
}

func (r *pluginRegistry) transformers() []plugins.Transformer {
	out := make([]plugins.Transformer, len(r.entries))
	for i, p := range r.entries {
		out[i] = p.build()
	}
	return out
}

// pluginConfigurer is a plugin the plugin command knows how to enable.
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}
