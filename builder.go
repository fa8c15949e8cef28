package commodore

import (
	"errors"
	"fmt"
	"reflect"
)

// Builder builds a Command as a linear chain of components.
//
//	cmd, err := commodore.NewBuilder("tp", "teleport").
//		Literal("to").
//		Required("target", commodore.Word).
//		Optional("distance", commodore.Int, commodore.WithDefault(commodore.ParsedDefault("10"))).
//		Permission(commodore.Perm("tp.use")).
//		Handler(h).
//		Build()
//
// The first error encountered is latched and returned by Build.
type Builder struct {
	components []*Component
	flags      []*CommandFlag
	handler    Handler
	permission Permission
	senderType reflect.Type
	err        error
}

// NewBuilder returns a Builder whose root component is the literal name
// with the given aliases.
func NewBuilder(name string, aliases ...string) *Builder {
	b := &Builder{}
	return b.Literal(name, aliases...)
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Literal appends a literal component.
func (b *Builder) Literal(name string, aliases ...string) *Builder {
	c, err := NewLiteralComponent(name, aliases...)
	if err != nil {
		return b.fail(err)
	}
	b.components = append(b.components, c)
	return b
}

// Required appends a required variable component.
func (b *Builder) Required(name string, parser ArgumentParser, opts ...ComponentOption) *Builder {
	return b.variable(name, parser, true, opts)
}

// Optional appends an optional variable component.
func (b *Builder) Optional(name string, parser ArgumentParser, opts ...ComponentOption) *Builder {
	return b.variable(name, parser, false, opts)
}

func (b *Builder) variable(name string, parser ArgumentParser, required bool, opts []ComponentOption) *Builder {
	c, err := NewVariableComponent(name, parser, required)
	if err != nil {
		return b.fail(err)
	}
	for _, opt := range opts {
		opt(c)
	}
	b.components = append(b.components, c)
	return b
}

// ComponentOption configures a component added through the builder.
type ComponentOption func(c *Component)

// WithDefault sets the component's default value strategy.
func WithDefault(d *DefaultValue) ComponentOption {
	return func(c *Component) { c.SetDefault(d) }
}

// WithSuggestions overrides the component's suggestion provider.
func WithSuggestions(p SuggestionProvider) ComponentOption {
	return func(c *Component) { c.SetSuggestions(p) }
}

// WithPreprocessor appends a preprocessor to the component.
func WithPreprocessor(p Preprocessor) ComponentOption {
	return func(c *Component) { c.AddPreprocessor(p) }
}

// Flag declares a flag on the command. Flags may appear anywhere after the
// flag-insertion index of the resulting command.
func (b *Builder) Flag(flag *CommandFlag) *Builder {
	b.flags = append(b.flags, flag)
	return b
}

// Permission sets the command permission.
func (b *Builder) Permission(p Permission) *Builder {
	b.permission = p
	return b
}

// SenderType restricts the command to senders assignable to t.
func (b *Builder) SenderType(t reflect.Type) *Builder {
	b.senderType = t
	return b
}

// Handler sets the command handler.
func (b *Builder) Handler(h Handler) *Builder {
	b.handler = h
	return b
}

// HandlerFunc sets the command handler from a func.
func (b *Builder) HandlerFunc(fn func(c *CommandContext) error) *Builder {
	return b.Handler(HandlerFunc(fn))
}

var (
	// ErrNoHandler occurs when a command is built without a handler.
	ErrNoHandler = errors.New("commodore: command has no handler")
	// ErrNoComponents occurs when a command is built without components.
	ErrNoComponents = errors.New("commodore: command has no components")
	// ErrRequiredAfterOptional occurs when a required component follows an
	// optional one: within a command the required components form a prefix.
	ErrRequiredAfterOptional = errors.New("commodore: required component after optional component")
)

// Build validates the declaration and returns the Command.
func (b *Builder) Build() (*Command, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.components) == 0 {
		return nil, ErrNoComponents
	}
	if b.handler == nil {
		return nil, ErrNoHandler
	}
	seenOptional := false
	for _, c := range b.components {
		if !c.Required() {
			seenOptional = true
		} else if seenOptional {
			return nil, fmt.Errorf("%w: %q", ErrRequiredAfterOptional, c.Name())
		}
	}
	cmd := &Command{
		components: b.components,
		flags:      b.flags,
		handler:    b.handler,
		permission: b.permission,
		senderType: b.senderType,
	}
	if len(b.flags) != 0 {
		fc, err := newFlagComponent(b.flags)
		if err != nil {
			return nil, err
		}
		cmd.flagComponent = fc
	}
	return cmd, nil
}
