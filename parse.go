package commodore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchCommand occurs when no root command matched the first token.
	ErrNoSuchCommand = errors.New("commodore: unknown command")
	// ErrInvalidSyntax occurs when the path through the tree is known but
	// the input is malformed or truncated.
	ErrInvalidSyntax = errors.New("commodore: invalid command syntax")
	// ErrNoPermission occurs when the gate denied access at some node.
	ErrNoPermission = errors.New("commodore: no permission")
	// ErrInvalidSenderType occurs when the resolved command rejects the sender.
	ErrInvalidSenderType = errors.New("commodore: invalid sender type")
	// ErrArgumentParse occurs when a committed parser or a preprocessor
	// explicitly failed. This is the only parser failure that propagates;
	// other no-match results are recovered silently.
	ErrArgumentParse = errors.New("commodore: argument parse failure")
)

// NoSuchCommandError reports that no root child matched the first token.
type NoSuchCommandError struct {
	Peek string // The token that matched nothing.
}

func (e *NoSuchCommandError) Unwrap() error { return ErrNoSuchCommand }
func (e *NoSuchCommandError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoSuchCommand, e.Peek)
}

// InvalidSyntaxError reports malformed or truncated input on a known path.
type InvalidSyntaxError struct {
	Chain  []*Component // Components from the root to the failing node.
	Parsed []*Component // Components parsed successfully before the failure.
	Syntax string       // Correct syntax rendered by the manager's formatter.
}

func (e *InvalidSyntaxError) Unwrap() error { return ErrInvalidSyntax }
func (e *InvalidSyntaxError) Error() string {
	if e.Syntax == "" {
		return ErrInvalidSyntax.Error()
	}
	return fmt.Sprintf("%v, correct syntax: %s", ErrInvalidSyntax, e.Syntax)
}

// NoPermissionError reports a gate denial.
type NoPermissionError struct {
	Chain      []*Component // Components from the root to the denied node.
	Permission Permission   // The permission that did not hold, if known.
}

func (e *NoPermissionError) Unwrap() error { return ErrNoPermission }
func (e *NoPermissionError) Error() string {
	if e.Permission != nil {
		return fmt.Sprintf("%v: %s", ErrNoPermission, e.Permission)
	}
	return ErrNoPermission.Error()
}

// InvalidSenderTypeError reports that the resolved command requires a
// different sender type.
type InvalidSenderTypeError struct {
	Command  *Command
	Required string
	Actual   string
}

func (e *InvalidSenderTypeError) Unwrap() error { return ErrInvalidSenderType }
func (e *InvalidSenderTypeError) Error() string {
	return fmt.Sprintf("%v: required %s, got %s", ErrInvalidSenderType, e.Required, e.Actual)
}

// ArgumentParseError reports an explicit parser or preprocessor failure on
// a committed component.
type ArgumentParseError struct {
	Chain []*Component // Components from the root to the failing component.
	Err   error        // The parser's failure.
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }
func (e *ArgumentParseError) Is(target error) bool {
	return target == ErrArgumentParse || errors.Is(e.Err, target)
}
func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrArgumentParse, e.Err)
}

// parse walks the tree from the root and returns the resolved command.
// The wrapper in Manager performs the final sender-type check.
func (t *CommandTree) parse(ctx *CommandContext, input *CommandInput) (*Command, error) {
	return t.parseNode(ctx, input, t.root)
}

func (t *CommandTree) parseNode(ctx *CommandContext, input *CommandInput, node *Node) (*Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Remembered committed failure of the dynamic branch. It surfaces only
	// if no literal sibling resolves the token either.
	var committedErr error

	dyn := t.dynamicChild(node, input)
	if dyn != nil {
		cmd, decided, err := t.parseDynamic(ctx, input, node, dyn)
		if decided {
			return cmd, err
		}
		committedErr = err
	}

	if !input.IsEmptyIgnoringWhitespace() {
		token := input.PeekString()
		if lit := node.matchLiteral(token); lit != nil {
			if !lit.gate(ctx) {
				return nil, &NoPermissionError{Chain: lit.Chain(), Permission: lit.permission}
			}
			start := input.Cursor
			v, err := lit.Component().Parser().Parse(ctx, input)
			if err != nil {
				// The alias matched but the parser disagreed; treat as a
				// silent no-match like any literal sibling failure.
				input.Cursor = start
			} else {
				ctx.addRecord(&ParsingRecord{
					Component: lit.Component(),
					Start:     start,
					End:       input.Cursor,
					Success:   true,
					Text:      v.(string),
				})
				return t.parseNode(ctx, input, lit)
			}
		}
	}

	if node.command != nil && input.IsEmptyIgnoringWhitespace() {
		if !allows(node.command.Permission(), ctx) {
			return nil, &NoPermissionError{Chain: node.Chain(), Permission: node.command.Permission()}
		}
		return node.command, nil
	}
	if node.IsRoot() {
		return nil, &NoSuchCommandError{Peek: input.PeekString()}
	}
	if committedErr != nil {
		return nil, committedErr
	}
	return nil, t.invalidSyntax(ctx, node)
}

// dynamicChild selects the VARIABLE or FLAG child the walk should try for
// the next token, or nil when the token belongs to a literal sibling. A
// flag child only competes for tokens that look like flags.
func (t *CommandTree) dynamicChild(node *Node, input *CommandInput) *Node {
	token := input.PeekString()
	if token != "" && node.matchLiteral(token) != nil {
		return nil
	}
	if isFlagToken(token) {
		if f := node.flagChild(); f != nil {
			return f
		}
	}
	return node.variableChild()
}

// parseDynamic attempts the dynamic child. The second return value
// indicates whether the walk is decided; when false, the returned error
// (possibly nil) is the remembered committed failure and literal siblings
// get their try.
func (t *CommandTree) parseDynamic(ctx *CommandContext, input *CommandInput, node, dyn *Node) (*Command, bool, error) {
	comp := dyn.Component()

	if input.IsEmptyIgnoringWhitespace() && comp.Kind() != FlagComponent {
		cmd, err := t.parseExhausted(ctx, input, node, dyn)
		return cmd, true, err
	}

	if !dyn.gate(ctx) {
		return nil, true, &NoPermissionError{Chain: dyn.Chain(), Permission: dyn.permission}
	}

	ctx.setCurrent(comp)
	if err := comp.Preprocess(ctx, input); err != nil {
		return nil, true, &ArgumentParseError{Chain: dyn.Chain(), Err: err}
	}

	start := input.Cursor
	value, err := comp.Parser().Parse(ctx, input)
	if cerr := ctx.Err(); cerr != nil {
		return nil, true, cerr
	}
	if err != nil {
		input.Cursor = start
		ctx.addRecord(&ParsingRecord{Component: comp, Start: start, End: start})
		return nil, false, &ArgumentParseError{Chain: dyn.Chain(), Err: err}
	}

	ctx.Store(comp.Name(), value)
	ctx.addRecord(&ParsingRecord{
		Component: comp,
		Start:     start,
		End:       input.Cursor,
		Success:   true,
		Text:      strings.Trim(input.String[start:min(input.Cursor, len(input.String))], string(ArgumentSeparator)),
	})

	if dyn.IsLeaf() {
		if input.IsEmptyIgnoringWhitespace() {
			return dyn.command, true, nil
		}
		return nil, true, t.invalidSyntax(ctx, dyn)
	}
	cmd, werr := t.parseNode(ctx, input, dyn)
	return cmd, true, werr
}

// parseExhausted handles the empty-input cases of the dynamic branch:
// defaults, optional shortcuts and intermediate executors. The gate of the
// dynamic child is only evaluated on the paths that actually descend into
// it; an intermediate executor remains runnable by senders that may not
// use the subtree below it.
func (t *CommandTree) parseExhausted(ctx *CommandContext, input *CommandInput, node, dyn *Node) (*Command, error) {
	comp := dyn.Component()

	if def := comp.Default(); def != nil {
		if !dyn.gate(ctx) {
			return nil, &NoPermissionError{Chain: dyn.Chain(), Permission: dyn.permission}
		}
		if def.IsParsed() {
			if input.CanRead() || input.Cursor == 0 {
				input.AppendString(def.parsed)
			} else {
				input.AppendString(string(ArgumentSeparator) + def.parsed)
			}
			return t.parseNode(ctx, input, node)
		}
		ctx.Store(comp.Name(), def.compute(ctx))
		if dyn.IsLeaf() {
			return dyn.command, nil
		}
		return t.parseNode(ctx, input, dyn)
	}

	if !comp.Required() {
		if !dyn.gate(ctx) {
			return nil, &NoPermissionError{Chain: dyn.Chain(), Permission: dyn.permission}
		}
		if dyn.command != nil {
			return dyn.command, nil
		}
		return t.firstOwner(dyn), nil
	}

	// Required with no input left: an owning command on the current node
	// runs as intermediate executor, anything else is truncated input.
	if node.command != nil {
		if !allows(node.command.Permission(), ctx) {
			return nil, &NoPermissionError{Chain: node.Chain(), Permission: node.command.Permission()}
		}
		return node.command, nil
	}
	return nil, t.invalidSyntax(ctx, dyn)
}

// firstOwner walks the single path below n to the first descendant owning
// a command. Verification guarantees determinism here.
func (t *CommandTree) firstOwner(n *Node) *Command {
	for n != nil {
		if n.command != nil {
			return n.command
		}
		if len(n.children) == 0 {
			return nil
		}
		n = n.children[0]
	}
	return nil
}

func (t *CommandTree) invalidSyntax(ctx *CommandContext, node *Node) error {
	e := &InvalidSyntaxError{
		Chain:  node.Chain(),
		Parsed: ctx.ParsedComponents(),
	}
	if f := t.manager.formatter; f != nil {
		e.Syntax = f(ctx.Sender(), e.Chain, node)
	}
	return e
}

// isFlagToken indicates whether token is the start of a flag rather than a
// value. A leading dash followed by a digit or dot reads as a negative
// number, not a flag.
func isFlagToken(token string) bool {
	if strings.HasPrefix(token, "--") {
		return len(token) > 2
	}
	if len(token) < 2 || token[0] != '-' {
		return false
	}
	c := token[1]
	return !(c >= '0' && c <= '9') && c != '.' && c != '-'
}
