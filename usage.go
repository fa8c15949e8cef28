package commodore

import (
	"bytes"
)

const (
	// UsageOptionalOpen is the open rune for an optional argument.
	UsageOptionalOpen rune = '['
	// UsageOptionalClose is the close rune for an optional argument.
	UsageOptionalClose rune = ']'
	// UsageRequiredOpen is the open rune for a required argument.
	UsageRequiredOpen rune = '<'
	// UsageRequiredClose is the close rune for a required argument.
	UsageRequiredClose rune = '>'
)

// UsageText renders one component: the plain name for literals, <name> for
// required variables, [name] for optional ones and [--name] for flags.
func UsageText(c *Component) string {
	b := new(bytes.Buffer)
	switch c.Kind() {
	case LiteralComponent:
		b.WriteString(c.Name())
	case VariableComponent:
		if c.Required() {
			b.WriteRune(UsageRequiredOpen)
			b.WriteString(c.Name())
			b.WriteRune(UsageRequiredClose)
		} else {
			b.WriteRune(UsageOptionalOpen)
			b.WriteString(c.Name())
			b.WriteRune(UsageOptionalClose)
		}
	default:
		if fp, ok := c.Parser().(*FlagParser); ok {
			for i, f := range fp.Flags() {
				if i != 0 {
					b.WriteRune(ArgumentSeparator)
				}
				b.WriteRune(UsageOptionalOpen)
				b.WriteString("--")
				b.WriteString(f.Name())
				b.WriteRune(UsageOptionalClose)
			}
		}
	}
	return b.String()
}

// FormatSyntax is the default SyntaxFormatter: it renders the chain from
// the root followed by the next steps available below node.
func FormatSyntax(_ interface{}, components []*Component, node *Node) string {
	b := new(bytes.Buffer)
	for i, c := range components {
		if i != 0 {
			b.WriteRune(ArgumentSeparator)
		}
		b.WriteString(UsageText(c))
	}
	if node == nil {
		return b.String()
	}
	children := node.Children()
	if len(children) == 1 {
		if b.Len() != 0 {
			b.WriteRune(ArgumentSeparator)
		}
		b.WriteString(UsageText(children[0].Component()))
	} else if len(children) > 1 {
		if b.Len() != 0 {
			b.WriteRune(ArgumentSeparator)
		}
		b.WriteRune(UsageOptionalOpen)
		for i, c := range children {
			if i != 0 {
				b.WriteRune('|')
			}
			b.WriteString(UsageText(c.Component()))
		}
		b.WriteRune(UsageOptionalClose)
	}
	return b.String()
}
