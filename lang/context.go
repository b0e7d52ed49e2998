package lang

import "github.com/sergev/hashlang/parser"

// RootContextName names the context programs start in.
const RootContextName = "<program>"

// Context is one record of the call stack. It only feeds tracebacks;
// variable lookup goes through Env.
type Context struct {
	Name   string
	Parent *Context
	Entry  *parser.Position // call site in Parent, nil for the root
	Env    *Env
}

// NewRootContext returns the context a program runs in.
func NewRootContext(env *Env) *Context {
	return &Context{Name: RootContextName, Env: env}
}

// Child returns the context entered by a call to name at entry.
func (c *Context) Child(name string, entry parser.Position, env *Env) *Context {
	return &Context{
		Name:   name,
		Parent: c,
		Entry:  &entry,
		Env:    env,
	}
}
