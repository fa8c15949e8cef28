package commodore

import (
	"errors"
	"fmt"
	"strings"
)

// FlagRepeatPolicy decides what happens when a flag appears more than once
// in a single input.
type FlagRepeatPolicy uint8

// The flag repeat policies.
const (
	FlagFirstWins FlagRepeatPolicy = iota // Keep the first value.
	FlagReplace                           // Keep the last value.
	FlagAppend                            // Collect every value.
)

// CommandFlag declares a single flag of a command: a long name matched as
// --name, an optional single-character short form matched as -c, and an
// optional value parser. A flag without a parser is a presence flag storing
// true.
type CommandFlag struct {
	name    string
	short   rune
	aliases []string
	parser  ArgumentParser
	repeat  FlagRepeatPolicy
}

// NewFlag returns a presence flag with the given long name.
func NewFlag(name string) *CommandFlag { return &CommandFlag{name: name} }

// Short sets the single-character short form.
func (f *CommandFlag) Short(c rune) *CommandFlag {
	f.short = c
	return f
}

// Alias adds an alternative long name.
func (f *CommandFlag) Alias(alias string) *CommandFlag {
	f.aliases = append(f.aliases, alias)
	return f
}

// WithParser turns the flag into a valued flag parsing its value with parser.
func (f *CommandFlag) WithParser(p ArgumentParser) *CommandFlag {
	f.parser = p
	return f
}

// RepeatPolicy sets the flag's repeat policy.
func (f *CommandFlag) RepeatPolicy(p FlagRepeatPolicy) *CommandFlag {
	f.repeat = p
	return f
}

// Name returns the long name.
func (f *CommandFlag) Name() string { return f.name }

// Parser returns the value parser, or nil for a presence flag.
func (f *CommandFlag) Parser() ArgumentParser { return f.parser }

func (f *CommandFlag) matchesLong(name string) bool {
	if strings.EqualFold(name, f.name) {
		return true
	}
	for _, a := range f.aliases {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}

// FlagResult holds the flag values parsed during one request.
type FlagResult struct {
	values map[string][]interface{}
}

func newFlagResult() *FlagResult { return &FlagResult{values: map[string][]interface{}{}} }

// Has indicates whether the flag named name was present.
func (r *FlagResult) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Get returns the value of the flag named name.
func (r *FlagResult) Get(name string) (interface{}, bool) {
	a, ok := r.values[name]
	if !ok || len(a) == 0 {
		return nil, false
	}
	return a[0], true
}

// All returns every collected value of the flag named name.
func (r *FlagResult) All(name string) []interface{} { return r.values[name] }

// Count returns the number of collected values of the flag named name.
func (r *FlagResult) Count(name string) int { return len(r.values[name]) }

func (r *FlagResult) add(f *CommandFlag, value interface{}) {
	switch f.repeat {
	case FlagFirstWins:
		if _, ok := r.values[f.name]; ok {
			return
		}
		r.values[f.name] = []interface{}{value}
	case FlagReplace:
		r.values[f.name] = []interface{}{value}
	case FlagAppend:
		r.values[f.name] = append(r.values[f.name], value)
	}
}

var (
	// ErrUnknownFlag occurs when an input flag is not declared.
	ErrUnknownFlag = errors.New("commodore: unknown flag")
	// ErrExpectedFlag occurs when the flag parser found no flag token.
	ErrExpectedFlag = errors.New("commodore: expected flag")
	// ErrMissingFlagValue occurs when a valued flag has no value token.
	ErrMissingFlagValue = errors.New("commodore: missing flag value")
	// ErrDuplicateFlagName occurs when two flags of one command share a name.
	ErrDuplicateFlagName = errors.New("commodore: duplicate flag name")
)

// UnknownFlagError reports an undeclared flag in the input.
type UnknownFlagError struct{ Flag string }

func (e *UnknownFlagError) Unwrap() error { return ErrUnknownFlag }
func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownFlag, e.Flag)
}

// flagMetaKey is the well-known context key under which the suggestion walk
// records the flag a value is currently being typed for.
var flagMetaKey = NewKey[*CommandFlag]("__current_flag__")

// CurrentFlag returns the flag whose value is being typed, recorded by the
// suggestion walk for value providers.
func (c *CommandContext) CurrentFlag() (*CommandFlag, bool) { return GetKey(c, flagMetaKey) }

// FlagParser recognises tokens beginning with - (short form) or -- (long
// form) anywhere after the flag-insertion index and parses their values
// with the per-flag parsers. One FlagParser aggregates all flags of a
// single command.
type FlagParser struct {
	flags *StringFlagMap // ordered by declaration
}

func newFlagComponent(flags []*CommandFlag) (*Component, error) {
	m := NewStringFlagMap()
	for _, f := range flags {
		if !validComponentName(f.name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidComponentName, f.name)
		}
		if _, ok := m.Get(f.name); ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFlagName, f.name)
		}
		m.Put(f.name, f)
	}
	return &Component{
		name:     "flags",
		kind:     FlagComponent,
		required: false,
		parser:   &FlagParser{flags: m},
	}, nil
}

func (p *FlagParser) String() string { return "flags" }

// Flags returns the declared flags in declaration order.
func (p *FlagParser) Flags() []*CommandFlag { return p.flags.Values() }

func (p *FlagParser) resolveLong(name string) *CommandFlag {
	for _, f := range p.flags.Values() {
		if f.matchesLong(name) {
			return f
		}
	}
	return nil
}

func (p *FlagParser) resolveShort(c rune) *CommandFlag {
	for _, f := range p.flags.Values() {
		if f.short != 0 && f.short == c {
			return f
		}
	}
	return nil
}

// Parse consumes as many flag tokens as possible, storing each flag's value
// into the context's FlagResult, and returns the result. At least one flag
// must be present.
func (p *FlagParser) Parse(ctx *CommandContext, input *CommandInput) (interface{}, error) {
	result := ctx.Flags()
	parsed := false
	for !input.IsEmptyIgnoringWhitespace() {
		token := input.PeekString()
		if !isFlagToken(token) {
			break
		}
		input.ReadString()

		if strings.HasPrefix(token, "--") {
			f := p.resolveLong(token[2:])
			if f == nil {
				return nil, &UnknownFlagError{Flag: token}
			}
			if err := p.parseValue(ctx, input, f, result); err != nil {
				return nil, err
			}
		} else {
			// Short form; grouped shorts must all be presence flags.
			shorts := []rune(token[1:])
			if len(shorts) == 1 {
				f := p.resolveShort(shorts[0])
				if f == nil {
					return nil, &UnknownFlagError{Flag: token}
				}
				if err := p.parseValue(ctx, input, f, result); err != nil {
					return nil, err
				}
			} else {
				for _, c := range shorts {
					f := p.resolveShort(c)
					if f == nil || f.parser != nil {
						return nil, &UnknownFlagError{Flag: token}
					}
					result.add(f, true)
				}
			}
		}
		parsed = true
	}
	if !parsed {
		return nil, &InputError{Err: ErrExpectedFlag, Input: input}
	}
	return result, nil
}

func (p *FlagParser) parseValue(ctx *CommandContext, input *CommandInput, f *CommandFlag, result *FlagResult) error {
	if f.parser == nil {
		result.add(f, true)
		return nil
	}
	if input.IsEmptyIgnoringWhitespace() {
		return fmt.Errorf("%w: --%s", ErrMissingFlagValue, f.name)
	}
	input.SkipWhitespace(input.RemainingLen())
	v, err := f.parser.Parse(ctx, input)
	if err != nil {
		return err
	}
	result.add(f, v)
	return nil
}

// ParseCurrentFlag inspects the partial input and records in the context
// which flag a value is currently being typed for, so that value
// suggestions come from that flag's parser.
func (p *FlagParser) ParseCurrentFlag(ctx *CommandContext, input *CommandInput) {
	var (
		tokens        []string
		trailingSpace = strings.HasSuffix(input.RemainingInput(), string(ArgumentSeparator))
	)
	for !input.IsEmptyIgnoringWhitespace() {
		tokens = append(tokens, input.ReadString())
	}

	var pending *CommandFlag
	for i, tok := range tokens {
		last := i == len(tokens)-1
		if pending != nil {
			if last && !trailingSpace {
				// Mid-value token of a valued flag.
				StoreKey(ctx, flagMetaKey, pending)
				return
			}
			pending = nil
			continue
		}
		if !isFlagToken(tok) {
			continue
		}
		var f *CommandFlag
		if strings.HasPrefix(tok, "--") {
			f = p.resolveLong(tok[2:])
		} else if r := []rune(tok[1:]); len(r) == 1 {
			f = p.resolveShort(r[0])
		}
		if f == nil || f.parser == nil {
			continue
		}
		if last && trailingSpace {
			// The next token starts this flag's value.
			StoreKey(ctx, flagMetaKey, f)
			return
		}
		pending = f
	}
	// Not typing a value.
	StoreKey(ctx, flagMetaKey, (*CommandFlag)(nil))
}

// Suggestions implements SuggestionProvider. While a value is being typed
// it delegates to the current flag's parser; otherwise it offers the flag
// names, leaving out first-wins flags that are already present.
func (p *FlagParser) Suggestions(ctx *CommandContext, partial string) []Suggestion {
	if f, ok := ctx.CurrentFlag(); ok && f != nil {
		return ProvideSuggestions(f.parser, ctx, partial)
	}
	var out []Suggestion
	low := strings.ToLower(partial)
	for _, f := range p.flags.Values() {
		if ctx.Flags().Has(f.name) && f.repeat == FlagFirstWins {
			continue
		}
		long := "--" + f.name
		if strings.HasPrefix(strings.ToLower(long), low) && !strings.EqualFold(long, partial) {
			out = append(out, Suggestion{Text: long})
		}
		if f.short != 0 {
			short := "-" + string(f.short)
			if partial == short || partial == "-" {
				out = append(out, Suggestion{Text: short})
			}
		}
	}
	return out
}
