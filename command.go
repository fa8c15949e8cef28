package commodore

import (
	"reflect"
	"strings"
)

// Handler runs an executed command.
type Handler interface {
	Run(c *CommandContext) error
}

// HandlerFunc is a func implementing Handler.
type HandlerFunc func(c *CommandContext) error

// Run implements Handler.
func (f HandlerFunc) Run(c *CommandContext) error { return f(c) }

// Command is an ordered sequence of components with a handler, an optional
// required sender type and a permission. Immutable after construction; it
// lives as long as the tree references it.
type Command struct {
	components    []*Component // positional components, in order
	flagComponent *Component   // aggregate flag component, if any
	flags         []*CommandFlag
	handler       Handler
	permission    Permission
	senderType    reflect.Type // nil means any sender
}

// Components returns the positional components in declaration order.
func (c *Command) Components() []*Component { return c.components }

// FlagComponent returns the aggregate flag component, or nil if the command
// declares no flags.
func (c *Command) FlagComponent() *Component { return c.flagComponent }

// Flags returns the declared flags in declaration order.
func (c *Command) Flags() []*CommandFlag { return c.flags }

// Handler returns the command handler.
func (c *Command) Handler() Handler { return c.handler }

// Permission returns the command permission, or nil if unrestricted.
func (c *Command) Permission() Permission { return c.permission }

// SenderType returns the required sender type, or nil if any sender may run
// the command.
func (c *Command) SenderType() reflect.Type { return c.senderType }

// RootComponent returns the first component.
func (c *Command) RootComponent() *Component { return c.components[0] }

// Name returns the name of the root component.
func (c *Command) Name() string { return c.components[0].Name() }

// String returns the space-joined component names.
func (c *Command) String() string {
	names := make([]string, len(c.components))
	for i, comp := range c.components {
		names[i] = comp.Name()
	}
	return strings.Join(names, string(ArgumentSeparator))
}

// senderAssignable indicates whether sender satisfies the required sender
// type, if any.
func (c *Command) senderAssignable(sender interface{}) bool {
	return c.senderType == nil || senderMatches(sender, c.senderType)
}

func senderMatches(sender interface{}, t reflect.Type) bool {
	if sender == nil {
		return false
	}
	return reflect.TypeOf(sender).AssignableTo(t)
}

// TypeOf returns the reflect.Type of T, for declaring sender type
// requirements without a value at hand.
func TypeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
