package commodore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_Execute_Flags(t *testing.T) {
	m := NewManager()
	var flags *FlagResult
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("verbose").Short('v')).
		Flag(NewFlag("num").WithParser(Int)).
		HandlerFunc(func(c *CommandContext) error { flags = c.Flags(); return nil }))

	require.NoError(t, m.Execute(context.TODO(), nil, "task --verbose --num 3"))
	require.True(t, flags.Has("verbose"))
	v, ok := flags.Get("num")
	require.True(t, ok)
	require.Equal(t, int32(3), v)
}

func TestManager_Execute_Flags_Absent(t *testing.T) {
	m := NewManager()
	var flags *FlagResult
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("verbose")).
		HandlerFunc(func(c *CommandContext) error { flags = c.Flags(); return nil }))

	require.NoError(t, m.Execute(context.TODO(), nil, "task"))
	require.False(t, flags.Has("verbose"))
}

func TestManager_Execute_Flags_ShortForm(t *testing.T) {
	m := NewManager()
	var flags *FlagResult
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("verbose").Short('v')).
		Flag(NewFlag("quiet").Short('q')).
		HandlerFunc(func(c *CommandContext) error { flags = c.Flags(); return nil }))

	require.NoError(t, m.Execute(context.TODO(), nil, "task -v"))
	require.True(t, flags.Has("verbose"))
	require.False(t, flags.Has("quiet"))

	// grouped presence flags
	require.NoError(t, m.Execute(context.TODO(), nil, "task -vq"))
	require.True(t, flags.Has("verbose"))
	require.True(t, flags.Has("quiet"))
}

func TestManager_Execute_Flags_AnyOrder(t *testing.T) {
	m := NewManager()
	var flags *FlagResult
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("a").WithParser(Int)).
		Flag(NewFlag("b").WithParser(Int)).
		HandlerFunc(func(c *CommandContext) error { flags = c.Flags(); return nil }))

	require.NoError(t, m.Execute(context.TODO(), nil, "task --b 2 --a 1"))
	a, _ := flags.Get("a")
	b, _ := flags.Get("b")
	require.Equal(t, int32(1), a)
	require.Equal(t, int32(2), b)
}

func TestManager_Execute_Flags_Unknown(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("task").Flag(NewFlag("verbose")).Handler(nop))

	err := m.Execute(context.TODO(), nil, "task --bogus")
	require.ErrorIs(t, err, ErrArgumentParse)
	require.ErrorIs(t, err, ErrUnknownFlag)
}

func TestManager_Execute_Flags_MissingValue(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("task").Flag(NewFlag("num").WithParser(Int)).Handler(nop))

	err := m.Execute(context.TODO(), nil, "task --num")
	require.ErrorIs(t, err, ErrMissingFlagValue)
}

func TestManager_Execute_Flags_RepeatPolicies(t *testing.T) {
	run := func(f *CommandFlag) *FlagResult {
		m := NewManager()
		var flags *FlagResult
		mustRegister(t, m, NewBuilder("task").Flag(f).
			HandlerFunc(func(c *CommandContext) error { flags = c.Flags(); return nil }))
		require.NoError(t, m.Execute(context.TODO(), nil, "task --x 1 --x 2"))
		return flags
	}

	first, _ := run(NewFlag("x").WithParser(Int)).Get("x")
	require.Equal(t, int32(1), first)

	last, _ := run(NewFlag("x").WithParser(Int).RepeatPolicy(FlagReplace)).Get("x")
	require.Equal(t, int32(2), last)

	all := run(NewFlag("x").WithParser(Int).RepeatPolicy(FlagAppend)).All("x")
	require.Equal(t, []interface{}{int32(1), int32(2)}, all)
}

func TestManager_Execute_Flags_NegativeNumberIsNotAFlag(t *testing.T) {
	m := NewManager()
	var n int
	mustRegister(t, m, NewBuilder("add").
		Required("n", Int).
		Flag(NewFlag("verbose")).
		HandlerFunc(func(c *CommandContext) error { n = c.Int("n"); return nil }))

	require.NoError(t, m.Execute(context.TODO(), nil, "add -5"))
	require.Equal(t, -5, n)
}

func TestManager_Execute_Flags_LiberalParsing(t *testing.T) {
	m := NewManager(WithSettings(Settings{LiberalFlagParsing: true}))
	var (
		key   string
		flags *FlagResult
	)
	mustRegister(t, m, NewBuilder("conf").Literal("set").
		Required("key", Word).
		Flag(NewFlag("force")).
		HandlerFunc(func(c *CommandContext) error {
			key = c.String("key")
			flags = c.Flags()
			return nil
		}))

	// flag before the positional argument
	require.NoError(t, m.Execute(context.TODO(), nil, "conf set --force name"))
	require.Equal(t, "name", key)
	require.True(t, flags.Has("force"))

	// flag after the positional argument
	require.NoError(t, m.Execute(context.TODO(), nil, "conf set other --force"))
	require.Equal(t, "other", key)
	require.True(t, flags.Has("force"))
}

func TestManager_Execute_Flags_DefaultInsertionIndex(t *testing.T) {
	// Without liberal parsing flags attach at the final component only.
	m := NewManager()
	mustRegister(t, m, NewBuilder("conf").Literal("set").
		Required("key", Word).
		Flag(NewFlag("force")).
		Handler(nop))

	require.NoError(t, m.Execute(context.TODO(), nil, "conf set name --force"))
	// Before the insertion index the token reads as the positional word,
	// leaving the trailing name unparsable.
	require.ErrorIs(t, m.Execute(context.TODO(), nil, "conf set --force name"), ErrInvalidSyntax)
}

func TestManager_Suggest_FlagNames(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("verbose").Short('v')).
		Flag(NewFlag("num").WithParser(Int)).
		Handler(nop))

	require.ElementsMatch(t, []string{"--verbose", "--num"}, suggest(m, "task --"))
	require.Equal(t, []string{"--verbose"}, suggest(m, "task --v"))
}

func TestManager_Suggest_FlagNames_PresentExcluded(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("verbose")).
		Flag(NewFlag("quiet")).
		Handler(nop))

	require.Equal(t, []string{"--quiet"}, suggest(m, "task --verbose --"))
}

func TestManager_Suggest_FlagValues(t *testing.T) {
	m := NewManager()
	mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("color").WithParser(NewEnumParser("color", "red", "green", "blue"))).
		Handler(nop))

	require.ElementsMatch(t, []string{"red", "green", "blue"}, suggest(m, "task --color "))
	require.Equal(t, []string{"red"}, suggest(m, "task --color r"))
}

func TestFlagParser_ParseCurrentFlag(t *testing.T) {
	m := NewManager()
	cmd := mustRegister(t, m, NewBuilder("task").
		Flag(NewFlag("num").WithParser(Int)).
		Flag(NewFlag("verbose")).
		Handler(nop))
	fp := cmd.FlagComponent().Parser().(*FlagParser)

	ctx := testContext()
	fp.ParseCurrentFlag(ctx, NewInput("--num "))
	f, ok := ctx.CurrentFlag()
	require.True(t, ok)
	require.Equal(t, "num", f.Name())

	ctx = testContext()
	fp.ParseCurrentFlag(ctx, NewInput("--num 1"))
	f, _ = ctx.CurrentFlag()
	require.Equal(t, "num", f.Name())

	ctx = testContext()
	fp.ParseCurrentFlag(ctx, NewInput("--verbose "))
	f, _ = ctx.CurrentFlag()
	require.Nil(t, f)
}

func TestBuilder_DuplicateFlagName(t *testing.T) {
	_, err := NewBuilder("task").
		Flag(NewFlag("x")).
		Flag(NewFlag("x")).
		Handler(nop).
		Build()
	require.ErrorIs(t, err, ErrDuplicateFlagName)
}
