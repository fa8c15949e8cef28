package commodore

import (
	"strings"
)

// Suggestion is a completion candidate for the next token.
type Suggestion struct {
	Text    string
	Tooltip string // Optional host-facing hint.
}

// Suggest returns a Suggestion for text.
func Suggest(text string) Suggestion { return Suggestion{Text: text} }

// SuggestText returns plain suggestions for the given texts.
func SuggestText(texts ...string) []Suggestion {
	a := make([]Suggestion, len(texts))
	for i, t := range texts {
		a[i] = Suggestion{Text: t}
	}
	return a
}

// SuggestionProcessor post-processes the suggestion walk's result once, at
// the end of the walk, to filter or sort according to host rules.
type SuggestionProcessor func(ctx *CommandContext, suggestions []Suggestion) []Suggestion

// SuggestionProviderFunc is a func implementing SuggestionProvider.
type SuggestionProviderFunc func(ctx *CommandContext, partial string) []Suggestion

// Suggestions implements SuggestionProvider.
func (f SuggestionProviderFunc) Suggestions(ctx *CommandContext, partial string) []Suggestion {
	return f(ctx, partial)
}

// suggest walks the tree collecting completion candidates for the next
// token. Unlike the parse walk it never fails: denied or unparsable
// branches contribute nothing.
func (t *CommandTree) suggest(ctx *CommandContext, input *CommandInput, node *Node) []Suggestion {
	if ctx.Err() != nil {
		return nil
	}

	var out []Suggestion
	remaining := input.RemainingTokens()
	token := input.PeekString()

	if remaining > 1 {
		// Literal navigation: an exactly accepted token advances the walk.
		if lit := node.matchLiteral(token); lit != nil {
			if !lit.gate(ctx) {
				return nil
			}
			input.ReadString()
			return t.suggest(ctx, input, lit)
		}
	} else {
		for _, lit := range node.literalChildren() {
			if !lit.gate(ctx) {
				continue
			}
			out = append(out, lit.Component().Suggestions(ctx, token)...)
		}
	}

	for _, dyn := range node.dynamicChildren() {
		if !dyn.gate(ctx) {
			continue
		}
		comp := dyn.Component()
		isFlag := comp.Kind() == FlagComponent
		if fp, ok := comp.Parser().(*FlagParser); ok {
			fp.ParseCurrentFlag(ctx, input.Copy())
		}

		greedyLeaf := dyn.IsLeaf() && IsGreedy(comp.Parser())
		if remaining <= 1 || greedyLeaf {
			partial := token
			if greedyLeaf {
				partial = strings.TrimLeft(input.RemainingInput(), string(ArgumentSeparator))
			}
			out = append(out, comp.Suggestions(ctx, partial)...)
			continue
		}

		cp := input.Copy()
		if err := comp.Preprocess(ctx, cp); err != nil {
			continue
		}
		value, err := comp.Parser().Parse(ctx, cp)
		if ctx.Err() != nil {
			return out
		}
		if err != nil {
			if isFlag {
				// A half-typed flag (name without its value yet) fails the
				// parse but is exactly what value suggestions complete.
				out = append(out, comp.Suggestions(ctx, lastPartialToken(input))...)
			}
			continue
		}
		if cp.IsEmpty() {
			// The value consumed the input to its end: the last token may
			// still be completable further.
			out = append(out, comp.Suggestions(ctx, lastPartialToken(input))...)
			if isFlag {
				// A flag node additionally offers its children, so the next
				// positional argument is proposed in parallel with the flags.
				out = append(out, t.suggest(ctx, cp, dyn)...)
			}
			continue
		}
		ctx.Store(comp.Name(), value)
		if isFlag {
			// More flags may follow the parsed group.
			out = append(out, comp.Suggestions(ctx, lastPartialToken(input))...)
		}
		out = append(out, t.suggest(ctx, cp, dyn)...)
	}

	return out
}

// lastPartialToken returns the token currently being typed at the end of
// the input, or the empty string when the input ends on a separator.
func lastPartialToken(input *CommandInput) string {
	remaining := input.RemainingInput()
	if remaining == "" || strings.HasSuffix(remaining, string(ArgumentSeparator)) {
		return ""
	}
	fields := strings.Split(remaining, string(ArgumentSeparator))
	return fields[len(fields)-1]
}

// dynamicChildren returns the node's variable and flag children, variable
// first.
func (n *Node) dynamicChildren() []*Node {
	var a []*Node
	if v := n.variableChild(); v != nil {
		a = append(a, v)
	}
	if f := n.flagChild(); f != nil {
		a = append(a, f)
	}
	return a
}

// dedupeSuggestions removes duplicate texts preserving first-seen order.
func dedupeSuggestions(in []Suggestion) []Suggestion {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s.Text]; ok {
			continue
		}
		seen[s.Text] = struct{}{}
		out = append(out, s)
	}
	return out
}
