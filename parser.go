package commodore

// ArgumentParser consumes input and produces a typed value.
//
// Parse consumes zero or more tokens from the input. On failure the parser
// must leave the cursor where it started; the tree also restores the cursor
// defensively around every parser attempt. The returned error is surfaced to
// the host wrapped in an ArgumentParseError when the walk has committed to
// the parser's component.
//
// Cancellation is observed through the CommandContext, which carries the
// request's context.Context: a parser doing slow work should return
// ctx.Err() when it is non-nil.
type ArgumentParser interface {
	Parse(ctx *CommandContext, input *CommandInput) (interface{}, error)
	String() string // String returns the name of the parser.
}

// SuggestionProvider provides completion candidates for the current token.
// It must not mutate the input it derives suggestions from.
type SuggestionProvider interface {
	Suggestions(ctx *CommandContext, partial string) []Suggestion
}

// GreedyParser is optionally implemented by parsers that consume the
// input to its end, such as the greedy string mode. The suggestion walk
// hands a greedy leaf the whole remaining input as its partial text rather
// than a single token.
type GreedyParser interface {
	Greedy() bool
}

// IsGreedy indicates whether parser consumes input greedily.
func IsGreedy(parser ArgumentParser) bool {
	g, ok := parser.(GreedyParser)
	return ok && g.Greedy()
}

// ProvideSuggestions returns the suggestions of i if it implements
// SuggestionProvider or nil if it does not.
func ProvideSuggestions(i interface{}, ctx *CommandContext, partial string) []Suggestion {
	if i == nil {
		return nil
	}
	if p, ok := i.(SuggestionProvider); ok {
		return p.Suggestions(ctx, partial)
	}
	return nil
}

// ParserFuncs is a convenient struct implementing ArgumentParser.
type ParserFuncs struct {
	Name    string                                                               // The name returned by ArgumentParser.String.
	ParseFn func(ctx *CommandContext, input *CommandInput) (interface{}, error) // ArgumentParser.Parse
	// Optional suggestions for use with Manager.Suggest.
	SuggestFn func(ctx *CommandContext, partial string) []Suggestion
	// Optional marker for greedy parsers.
	GreedyFlag bool
}

func (t *ParserFuncs) Parse(ctx *CommandContext, input *CommandInput) (interface{}, error) {
	return t.ParseFn(ctx, input)
}
func (t *ParserFuncs) String() string { return t.Name }
func (t *ParserFuncs) Greedy() bool   { return t.GreedyFlag }

// Suggestions implements SuggestionProvider.
func (t *ParserFuncs) Suggestions(ctx *CommandContext, partial string) []Suggestion {
	if t.SuggestFn == nil {
		return nil
	}
	return t.SuggestFn(ctx, partial)
}
