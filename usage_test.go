package commodore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageText(t *testing.T) {
	lit, err := NewLiteralComponent("give")
	require.NoError(t, err)
	req, err := NewVariableComponent("amount", Int, true)
	require.NoError(t, err)
	opt, err := NewVariableComponent("target", Word, false)
	require.NoError(t, err)

	require.Equal(t, "give", UsageText(lit))
	require.Equal(t, "<amount>", UsageText(req))
	require.Equal(t, "[target]", UsageText(opt))
}

func TestUsageText_Flags(t *testing.T) {
	comp, err := newFlagComponent([]*CommandFlag{
		NewFlag("force"),
		NewFlag("num").WithParser(Int),
	})
	require.NoError(t, err)
	require.Equal(t, "[--force] [--num]", UsageText(comp))
}

func TestFormatSyntax_Chain(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("give").Required("amount", Int).Handler(nop))

	node := m.Tree().Root().Children()[0].Children()[0]
	require.Equal(t, "give <amount>", FormatSyntax(nil, node.Chain(), node))
}

func TestFormatSyntax_Alternatives(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("warp").Literal("set").Handler(nop))
	mustRegister(t, m, NewBuilder("warp").Literal("del").Handler(nop))

	node := m.Tree().Root().Children()[0]
	require.Equal(t, "warp [set|del]", FormatSyntax(nil, node.Chain(), node))
}

func TestFormatSyntax_UsedInErrors(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("give").Required("amount", Int).Handler(nop))

	err := m.Execute(context.TODO(), nil, "give")
	var serr *InvalidSyntaxError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "give <amount>", serr.Syntax)
}

func TestManager_CustomSyntaxFormatter(t *testing.T) {
	m := NewManager(WithSyntaxFormatter(func(interface{}, []*Component, *Node) string {
		return "custom"
	}))
	mustRegister(t, m, NewBuilder("give").Required("amount", Int).Handler(nop))

	err := m.Execute(context.TODO(), nil, "give")
	var serr *InvalidSyntaxError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "custom", serr.Syntax)
}
