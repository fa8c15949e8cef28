package commodore

import (
	"errors"
	"fmt"
	"strings"
)

// ComponentKind classifies a command component.
type ComponentKind uint8

// The component kinds.
const (
	LiteralComponent  ComponentKind = iota // Matches exactly its name or aliases.
	VariableComponent                      // Produces a typed value from input.
	FlagComponent                          // Off-path component matching flags.
)

func (k ComponentKind) String() string {
	switch k {
	case LiteralComponent:
		return "literal"
	case VariableComponent:
		return "variable"
	default:
		return "flag"
	}
}

// Preprocessor runs before a component's parser. It may inspect the input
// via peek operations but must not consume it; the first failing
// preprocessor short-circuits the component's parse.
type Preprocessor func(ctx *CommandContext, input *CommandInput) error

// DefaultValue is the default-value strategy of an optional component.
// A parsed default feeds a literal string back through the parser as if the
// user had typed it; a computed default bypasses the parser entirely.
type DefaultValue struct {
	parsed  string
	compute func(ctx *CommandContext) interface{}
}

// ParsedDefault returns a default value that appends value to the input
// stream and parses it like typed input.
func ParsedDefault(value string) *DefaultValue { return &DefaultValue{parsed: value} }

// ComputedDefault returns a default value produced by a host callback,
// stored without passing through the parser.
func ComputedDefault(compute func(ctx *CommandContext) interface{}) *DefaultValue {
	return &DefaultValue{compute: compute}
}

// IsParsed indicates whether this is a parsed default.
func (d *DefaultValue) IsParsed() bool { return d != nil && d.compute == nil }

// Component is one positional element of a command declaration.
type Component struct {
	name          string
	kind          ComponentKind
	required      bool
	def           *DefaultValue
	parser        ArgumentParser
	suggestions   SuggestionProvider
	preprocessors []Preprocessor
}

// ErrInvalidComponentName occurs when a component name contains characters
// outside alphanumerics, '-' and '_'.
var ErrInvalidComponentName = errors.New("commodore: invalid component name")

func validComponentName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

// NewLiteralComponent returns a required literal component matching name or
// any of the aliases, case-insensitively.
func NewLiteralComponent(name string, aliases ...string) (*Component, error) {
	if !validComponentName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidComponentName, name)
	}
	for _, a := range aliases {
		if !validComponentName(a) {
			return nil, fmt.Errorf("%w: alias %q", ErrInvalidComponentName, a)
		}
	}
	return &Component{
		name:     name,
		kind:     LiteralComponent,
		required: true,
		parser:   NewLiteralParser(name, aliases...),
	}, nil
}

// NewVariableComponent returns a variable component producing a value
// through parser.
func NewVariableComponent(name string, parser ArgumentParser, required bool) (*Component, error) {
	if !validComponentName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidComponentName, name)
	}
	if parser == nil {
		return nil, fmt.Errorf("commodore: component %q has no parser", name)
	}
	return &Component{
		name:     name,
		kind:     VariableComponent,
		required: required,
		parser:   parser,
	}, nil
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Kind returns the component kind.
func (c *Component) Kind() ComponentKind { return c.kind }

// Required indicates whether the component must receive input.
func (c *Component) Required() bool { return c.required }

// Parser returns the component's argument parser.
func (c *Component) Parser() ArgumentParser { return c.parser }

// Default returns the component's default value strategy, if any.
func (c *Component) Default() *DefaultValue { return c.def }

// SetDefault sets the default value strategy.
func (c *Component) SetDefault(d *DefaultValue) { c.def = d }

// SetSuggestions overrides the component's suggestion provider.
// Without an override the parser provides the suggestions.
func (c *Component) SetSuggestions(p SuggestionProvider) { c.suggestions = p }

// AddPreprocessor appends a preprocessor; preprocessors run in
// registration order.
func (c *Component) AddPreprocessor(p Preprocessor) { c.preprocessors = append(c.preprocessors, p) }

// Equals reports component equality, which is by (required, name).
// Flag components compare by identity: every command carries its own
// aggregate flag component and two of them must never merge.
func (c *Component) Equals(other *Component) bool {
	if other == nil {
		return false
	}
	if c.kind == FlagComponent || other.kind == FlagComponent {
		return c == other
	}
	return c.required == other.required && c.name == other.name
}

// Preprocess runs the registered preprocessors in order; the first failure
// short-circuits. Preprocessors must not move the input cursor, and the
// cursor is restored around each regardless of outcome.
func (c *Component) Preprocess(ctx *CommandContext, input *CommandInput) error {
	for _, p := range c.preprocessors {
		cursor := input.Cursor
		err := p(ctx, input)
		input.Cursor = cursor
		if err != nil {
			return err
		}
	}
	return nil
}

// Suggestions returns the completion candidates of this component: the
// override provider if set, else whatever the parser provides.
func (c *Component) Suggestions(ctx *CommandContext, partial string) []Suggestion {
	ctx.setCurrent(c)
	if c.suggestions != nil {
		return c.suggestions.Suggestions(ctx, partial)
	}
	return ProvideSuggestions(c.parser, ctx, partial)
}

// Aliases returns the alias set of a literal component including its
// canonical name, or nil for non-literal components.
func (c *Component) Aliases() []string {
	if lp, ok := c.parser.(*LiteralParser); ok {
		return lp.Aliases()
	}
	return nil
}

// IncorrectLiteralError is used to indicate an incorrect literal parse error.
type IncorrectLiteralError struct {
	Literal string // The expected literal value.
	Found   string // The token found instead.
}

func (e *IncorrectLiteralError) Error() string {
	return fmt.Sprintf("incorrect literal, expected %q but found %q", e.Literal, e.Found)
}

// LiteralParser accepts exactly its name or one of its aliases,
// case-insensitively, and produces the canonical name. The alias set is
// mutable: merging a command into an existing node extends the node's
// literal parser in place.
type LiteralParser struct {
	name    string
	aliases map[string]struct{} // lowercased, excluding name
}

// NewLiteralParser returns a LiteralParser for name and aliases.
func NewLiteralParser(name string, aliases ...string) *LiteralParser {
	p := &LiteralParser{name: name, aliases: map[string]struct{}{}}
	for _, a := range aliases {
		p.InsertAlias(a)
	}
	return p
}

// Name returns the canonical literal.
func (p *LiteralParser) Name() string { return p.name }

// InsertAlias adds an alias to the parser.
func (p *LiteralParser) InsertAlias(alias string) {
	a := strings.ToLower(alias)
	if a == strings.ToLower(p.name) {
		return
	}
	p.aliases[a] = struct{}{}
}

func (p *LiteralParser) removeAlias(alias string) {
	delete(p.aliases, strings.ToLower(alias))
}

// Accepts indicates whether token matches the name or an alias.
func (p *LiteralParser) Accepts(token string) bool {
	if strings.EqualFold(token, p.name) {
		return true
	}
	_, ok := p.aliases[strings.ToLower(token)]
	return ok
}

// Aliases returns the canonical name followed by all aliases.
func (p *LiteralParser) Aliases() []string {
	a := make([]string, 0, len(p.aliases)+1)
	a = append(a, p.name)
	for alias := range p.aliases {
		a = append(a, alias)
	}
	return a
}

func (p *LiteralParser) String() string { return "literal" }

// Parse reads one token and matches it against the literal.
func (p *LiteralParser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	start := input.Cursor
	token := input.ReadString()
	if !p.Accepts(token) {
		input.Cursor = start
		return nil, &InputError{
			Err:   &IncorrectLiteralError{Literal: p.name, Found: token},
			Input: input,
		}
	}
	return p.name, nil
}

// Suggestions implements SuggestionProvider, offering the canonical name
// for matching prefixes.
func (p *LiteralParser) Suggestions(_ *CommandContext, partial string) []Suggestion {
	low := strings.ToLower(partial)
	if strings.HasPrefix(strings.ToLower(p.name), low) && !strings.EqualFold(p.name, partial) {
		return []Suggestion{{Text: p.name}}
	}
	return nil
}
