package commodore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ArgumentSeparator separates individual arguments in a command input string.
const ArgumentSeparator rune = ' '

// CommandInput is a mutable cursor over a command input string.
// The token-level operations are total; Peek and Read require CanRead.
// A failed parse restores the Cursor itself
// or is restored by the caller via Copy and SetCursor.
type CommandInput struct {
	Cursor int
	String string
}

// NewInput returns a new CommandInput over line with the cursor at the start.
func NewInput(line string) *CommandInput { return &CommandInput{String: line} }

// InputError indicates a CommandInput error.
type InputError struct {
	Err   error
	Input *CommandInput
}

// InvalidValueError indicates that a read value was invalid for a parser.
type InvalidValueError struct {
	Parser ArgumentParser // The expected value type, may be nil.
	Value  string

	Err error // Optional underlying error
}

// Unwrap implements errors.Unwrap.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements error.
func (e *InvalidValueError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("read invalid value %q for type %q", e.Value, e.Parser)
}

// Unwrap implements errors.Unwrap.
func (e *InputError) Unwrap() error { return e.Err }
func (e *InputError) Error() string { return e.Err.Error() }

// CanRead indicates whether a next rune can be read by a call to Read.
func (r *CommandInput) CanRead() bool { return r.CanReadLen(1) }

// CanReadLen indicates whether the next length runes can be read.
func (r *CommandInput) CanReadLen(length int) bool { return r.Cursor+length <= len(r.String) }

// Peek returns the next rune without incrementing the Cursor.
func (r *CommandInput) Peek() rune { return rune(r.String[r.Cursor]) }

// Skip increments the Cursor.
func (r *CommandInput) Skip() { r.Cursor++ }

// Read returns the next rune.
func (r *CommandInput) Read() rune {
	c := r.String[r.Cursor]
	r.Cursor++
	return rune(c)
}

// Copy returns a snapshot of the input including the current Cursor.
func (r *CommandInput) Copy() *CommandInput {
	c := *r
	return &c
}

// SetCursor restores a cursor position previously taken from Cursor or Copy.
func (r *CommandInput) SetCursor(cursor int) { r.Cursor = cursor }

// AppendString appends s to the input source, as if the user had typed it.
func (r *CommandInput) AppendString(s string) { r.String += s }

// IsEmpty indicates whether the input is exhausted.
func (r *CommandInput) IsEmpty() bool { return !r.CanRead() }

// IsEmptyIgnoringWhitespace indicates whether only whitespace remains.
func (r *CommandInput) IsEmptyIgnoringWhitespace() bool {
	for i := r.Cursor; i < len(r.String); i++ {
		if rune(r.String[i]) != ArgumentSeparator {
			return false
		}
	}
	return true
}

// SkipWhitespace advances the cursor past up to n whitespace characters.
func (r *CommandInput) SkipWhitespace(n int) {
	for i := 0; i < n && r.CanRead() && r.Peek() == ArgumentSeparator; i++ {
		r.Skip()
	}
}

// PeekString returns the characters from the first non-whitespace position to
// the next whitespace or the end of the input, without moving the cursor.
// It returns the empty string if the input is exhausted.
func (r *CommandInput) PeekString() string {
	start := r.Cursor
	for start < len(r.String) && rune(r.String[start]) == ArgumentSeparator {
		start++
	}
	end := start
	for end < len(r.String) && rune(r.String[end]) != ArgumentSeparator {
		end++
	}
	return r.String[start:end]
}

// ReadString returns the same slice as PeekString and advances the cursor
// past it and one trailing whitespace character.
func (r *CommandInput) ReadString() string {
	for r.CanRead() && r.Peek() == ArgumentSeparator {
		r.Skip()
	}
	start := r.Cursor
	for r.CanRead() && r.Peek() != ArgumentSeparator {
		r.Skip()
	}
	s := r.String[start:r.Cursor]
	if r.CanRead() {
		r.Skip()
	}
	return s
}

// RemainingTokens counts the whitespace-delimited tokens from the current
// cursor. A trailing whitespace counts as one additional empty token.
func (r *CommandInput) RemainingTokens() int {
	if !r.CanRead() {
		return 0
	}
	var (
		n       int
		inToken bool
	)
	for i := r.Cursor; i < len(r.String); i++ {
		if rune(r.String[i]) == ArgumentSeparator {
			inToken = false
		} else if !inToken {
			inToken = true
			n++
		}
	}
	if rune(r.String[len(r.String)-1]) == ArgumentSeparator {
		n++
	}
	return n
}

// RemainingInput returns the remaining string beginning at the current Cursor.
func (r *CommandInput) RemainingInput() string { return r.String[r.Cursor:] }

// RemainingLen returns the remaining string length beginning at the current Cursor.
func (r *CommandInput) RemainingLen() int { return len(r.String) - r.Cursor }

var (
	// ErrInputExpectedBool occurs when the input expected a bool.
	ErrInputExpectedBool = errors.New("input expected bool")
	// ErrInputExpectedInt occurs when the input expected an int.
	ErrInputExpectedInt = errors.New("input expected int")
	// ErrInputExpectedFloat occurs when the input expected a float.
	ErrInputExpectedFloat = errors.New("input expected float")

	// ErrInputInvalidInt occurs when the input read an invalid int value.
	ErrInputInvalidInt = errors.New("read invalid int")
	// ErrInputInvalidFloat occurs when the input read an invalid float value.
	ErrInputInvalidFloat = errors.New("read invalid float")
)

// ReadBool tries to read a bool.
func (r *CommandInput) ReadBool() (bool, error) {
	start := r.Cursor
	value := r.ReadUnquotedString()
	if len(value) == 0 {
		return false, &InputError{Err: ErrInputExpectedBool, Input: r}
	}
	if strings.EqualFold(value, "true") {
		return true, nil
	} else if strings.EqualFold(value, "false") {
		return false, nil
	}
	r.Cursor = start
	return false, &InputError{
		Err:   &InvalidValueError{Parser: Bool, Value: value},
		Input: r,
	}
}

// ReadInt32 tries to read an int32.
func (r *CommandInput) ReadInt32() (int32, error) {
	i, err := r.readInt(32)
	return int32(i), err
}

// ReadInt64 tries to read an int64.
func (r *CommandInput) ReadInt64() (int64, error) { return r.readInt(64) }

func (r *CommandInput) readInt(bitSize int) (int64, error) {
	start := r.Cursor
	for r.CanRead() && IsAllowedNumber(r.Peek()) {
		r.Skip()
	}
	number := r.String[start:r.Cursor]
	if number == "" {
		return 0, &InputError{Err: ErrInputExpectedInt, Input: r}
	}
	i, err := strconv.ParseInt(number, 0, bitSize)
	if err != nil {
		r.Cursor = start
		return 0, &InputError{
			Err: &InvalidValueError{
				Value: number,
				Err:   fmt.Errorf("%w (%q): %v", ErrInputInvalidInt, number, err),
			},
			Input: r,
		}
	}
	return i, nil
}

// ReadFloat64 tries to read a float64.
func (r *CommandInput) ReadFloat64() (float64, error) {
	start := r.Cursor
	for r.CanRead() && IsAllowedNumber(r.Peek()) {
		r.Skip()
	}
	number := r.String[start:r.Cursor]
	if number == "" {
		return 0, &InputError{Err: ErrInputExpectedFloat, Input: r}
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		r.Cursor = start
		return 0, &InputError{
			Err: &InvalidValueError{
				Value: number,
				Err:   fmt.Errorf("%w (%q): %v", ErrInputInvalidFloat, number, err),
			},
			Input: r,
		}
	}
	return f, nil
}

var (
	// ErrInputInvalidEscape indicates an invalid escape error.
	ErrInputInvalidEscape = errors.New("read invalid escape character")
	// ErrInputExpectedStartOfQuote occurs when a start quote is missing.
	ErrInputExpectedStartOfQuote = errors.New("input expected start of quote")
	// ErrInputExpectedEndOfQuote occurs when an end quote is missing.
	ErrInputExpectedEndOfQuote = errors.New("input expected end of quote")
)

// ReadQuotable returns the next quoted or unquoted string.
func (r *CommandInput) ReadQuotable() (string, error) {
	if !r.CanRead() {
		return "", nil
	}
	next := r.Peek()
	if IsQuotedStringStart(next) {
		r.Skip()
		return r.ReadStringUntil(next)
	}
	return r.ReadUnquotedString(), nil
}

// ReadStringUntil reads a string until the terminator rune.
func (r *CommandInput) ReadStringUntil(terminator rune) (string, error) {
	var (
		result  strings.Builder
		escaped = false
	)
	for r.CanRead() {
		c := r.Read()
		if escaped {
			if c == terminator || c == SyntaxEscape {
				result.WriteRune(c)
				escaped = false
			} else {
				r.Cursor = r.Cursor - 1
				return "", &InputError{
					Err: &InvalidValueError{
						Value: string(c),
						Err:   ErrInputInvalidEscape,
					},
					Input: r,
				}
			}
		} else if c == SyntaxEscape {
			escaped = true
		} else if c == terminator {
			return result.String(), nil
		} else {
			result.WriteRune(c)
		}
	}

	return "", &InputError{Err: ErrInputExpectedEndOfQuote, Input: r}
}

// ReadUnquotedString reads an unquoted string.
func (r *CommandInput) ReadUnquotedString() string {
	start := r.Cursor
	for r.CanRead() && IsAllowedInUnquotedString(r.Peek()) {
		r.Skip()
	}
	return r.String[start:r.Cursor]
}

// ReadQuotedString reads a quoted string.
func (r *CommandInput) ReadQuotedString() (string, error) {
	if !r.CanRead() {
		return "", nil
	}
	next := r.Peek()
	if !IsQuotedStringStart(next) {
		return "", &InputError{Err: ErrInputExpectedStartOfQuote, Input: r}
	}
	r.Skip()
	return r.ReadStringUntil(next)
}

const (
	// SyntaxDoubleQuote is a double quote.
	SyntaxDoubleQuote rune = '"'
	// SyntaxSingleQuote is a single quote.
	SyntaxSingleQuote rune = '\''
	// SyntaxEscape is an escape.
	SyntaxEscape rune = '\\'
)

// IsAllowedNumber indicates whether c is an allowed number rune.
func IsAllowedNumber(c rune) bool { return c >= '0' && c <= '9' || c == '.' || c == '-' }

// IsQuotedStringStart indicates whether c is the start of a quoted string.
func IsQuotedStringStart(c rune) bool {
	return c == SyntaxDoubleQuote || c == SyntaxSingleQuote
}

// IsAllowedInUnquotedString indicates whether c is an allowed rune in an unquoted string.
func IsAllowedInUnquotedString(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' ||
		c == '.' || c == '+'
}
