package commodore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandInput_PeekString(t *testing.T) {
	in := NewInput("hello world")
	require.Equal(t, "hello", in.PeekString())
	require.Equal(t, 0, in.Cursor)
	// peeking again yields the same token
	require.Equal(t, "hello", in.PeekString())
}

func TestCommandInput_PeekString_LeadingWhitespace(t *testing.T) {
	in := NewInput("  hello")
	require.Equal(t, "hello", in.PeekString())
	require.Equal(t, 0, in.Cursor)
}

func TestCommandInput_PeekString_Exhausted(t *testing.T) {
	in := NewInput("")
	require.Equal(t, "", in.PeekString())
	in = NewInput("   ")
	require.Equal(t, "", in.PeekString())
}

func TestCommandInput_ReadString(t *testing.T) {
	in := NewInput("hello world")
	require.Equal(t, "hello", in.ReadString())
	require.Equal(t, "world", in.RemainingInput())
	require.Equal(t, "world", in.ReadString())
	require.True(t, in.IsEmpty())
	require.Equal(t, "", in.ReadString())
}

func TestCommandInput_RemainingTokens(t *testing.T) {
	require.Equal(t, 0, NewInput("").RemainingTokens())
	require.Equal(t, 1, NewInput("foo").RemainingTokens())
	require.Equal(t, 2, NewInput("foo bar").RemainingTokens())
	require.Equal(t, 1, NewInput(" ").RemainingTokens())
}

func TestCommandInput_RemainingTokens_TrailingSpace(t *testing.T) {
	// A trailing space counts as one empty token.
	require.Equal(t, NewInput("foo").RemainingTokens()+1, NewInput("foo ").RemainingTokens())
}

func TestCommandInput_CopyRestore(t *testing.T) {
	in := NewInput("one two three")
	snapshot := in.Copy()
	require.Equal(t, "one", in.ReadString())
	require.Equal(t, "two", in.ReadString())
	in.SetCursor(snapshot.Cursor)
	require.Equal(t, "one", in.ReadString())
}

func TestCommandInput_AppendString(t *testing.T) {
	in := NewInput("pay ")
	require.Equal(t, "pay", in.ReadString())
	require.True(t, in.IsEmptyIgnoringWhitespace())
	in.AppendString("10")
	require.False(t, in.IsEmptyIgnoringWhitespace())
	require.Equal(t, "10", in.ReadString())
}

func TestCommandInput_SkipWhitespace(t *testing.T) {
	in := NewInput("   x")
	in.SkipWhitespace(2)
	require.Equal(t, 2, in.Cursor)
	in.SkipWhitespace(5)
	require.Equal(t, 3, in.Cursor)
	require.Equal(t, 'x', in.Peek())
}

func TestCommandInput_IsEmptyIgnoringWhitespace(t *testing.T) {
	require.True(t, NewInput("").IsEmptyIgnoringWhitespace())
	require.True(t, NewInput("   ").IsEmptyIgnoringWhitespace())
	require.False(t, NewInput(" x ").IsEmptyIgnoringWhitespace())
}

func TestCommandInput_ReadQuotedString(t *testing.T) {
	in := NewInput(`"hello world"`)
	s, err := in.ReadQuotedString()
	require.NoError(t, err)
	require.Equal(t, "hello world", s)
	require.Empty(t, in.RemainingInput())
}

func TestCommandInput_ReadQuotedString_DoubleInsideSingle(t *testing.T) {
	in := NewInput(`'hello "world"'`)
	s, err := in.ReadQuotedString()
	require.NoError(t, err)
	require.Equal(t, `hello "world"`, s)
}

func TestCommandInput_ReadQuotedString_Unterminated(t *testing.T) {
	in := NewInput(`'hello`)
	_, err := in.ReadQuotedString()
	require.ErrorIs(t, err, ErrInputExpectedEndOfQuote)
}

func TestCommandInput_ReadQuotedString_Escape(t *testing.T) {
	in := NewInput(`"say \"hi\""`)
	s, err := in.ReadQuotedString()
	require.NoError(t, err)
	require.Equal(t, `say "hi"`, s)
}

func TestCommandInput_ReadBool(t *testing.T) {
	b, err := NewInput("true").ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	b, err = NewInput("False").ReadBool()
	require.NoError(t, err)
	require.False(t, b)

	in := NewInput("yes")
	_, err = in.ReadBool()
	require.Error(t, err)
	require.Equal(t, 0, in.Cursor)
}

func TestCommandInput_ReadInt32(t *testing.T) {
	i, err := NewInput("-42").ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-42), i)

	in := NewInput("abc")
	_, err = in.ReadInt32()
	require.ErrorIs(t, err, ErrInputExpectedInt)
}

func TestCommandInput_ReadFloat64(t *testing.T) {
	f, err := NewInput("3.5").ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 3.5, f)
}
