package commodore

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Builtin argument parsers.
var (
	// Word parses a single unquoted word.
	Word ArgumentParser = SingleWord
	// Quotable parses a quoted or unquoted string.
	Quotable ArgumentParser = QuotablePhrase
	// Greedy parses the remaining input as one string.
	Greedy ArgumentParser = GreedyPhrase
	// Bool parses true or false.
	Bool ArgumentParser = &BoolParser{}

	// Int parses an int32 without bounds.
	Int ArgumentParser = &Int32Parser{Min: MinInt32, Max: MaxInt32}
	// Int64 parses an int64 without bounds.
	Int64 ArgumentParser = &Int64Parser{Min: MinInt64, Max: MaxInt64}
	// Float64 parses a float64 without bounds.
	Float64 ArgumentParser = &Float64Parser{Min: -math.MaxFloat64, Max: math.MaxFloat64}

	// Duration parses durations like 2d12h7m34s.
	Duration ArgumentParser = &DurationParser{}
	// UUID parses an RFC 4122 UUID.
	UUID ArgumentParser = &UUIDParser{}
)

// Default minimums and maximums of the builtin numeric parsers.
const (
	MinInt32 = math.MinInt32
	MaxInt32 = math.MaxInt32
	MinInt64 = math.MinInt64
	MaxInt64 = math.MaxInt64
)

// StringMode is a string ArgumentParser.
type StringMode uint8

// Builtin string parser modes.
const (
	SingleWord     StringMode = iota // A single-word string.
	QuotablePhrase                   // A quotable phrase string.
	GreedyPhrase                     // A "greedy" string phrase consuming the rest of the input.
)

// ErrExpectedString occurs when a string parser found no readable word.
var ErrExpectedString = errors.New("input expected string")

func (t StringMode) String() string { return "string" }

// Greedy implements GreedyParser.
func (t StringMode) Greedy() bool { return t == GreedyPhrase }

// Parse implements ArgumentParser.
func (t StringMode) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	switch t {
	case GreedyPhrase:
		input.SkipWhitespace(input.RemainingLen())
		text := input.RemainingInput()
		input.Cursor = len(input.String)
		return text, nil
	case SingleWord:
		input.SkipWhitespace(input.RemainingLen())
		word := input.ReadUnquotedString()
		if word == "" {
			return nil, &InputError{Err: ErrExpectedString, Input: input}
		}
		return word, nil
	default:
		input.SkipWhitespace(input.RemainingLen())
		return input.ReadQuotable()
	}
}

// BoolParser parses true or false, case-insensitively.
type BoolParser struct{}

func (t *BoolParser) String() string { return "bool" }

// Parse implements ArgumentParser.
func (t *BoolParser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	input.SkipWhitespace(input.RemainingLen())
	return input.ReadBool()
}

// Suggestions implements SuggestionProvider.
func (t *BoolParser) Suggestions(_ *CommandContext, partial string) []Suggestion {
	low := strings.ToLower(partial)
	var out []Suggestion
	if strings.HasPrefix("true", low) {
		out = append(out, Suggestion{Text: "true"})
	}
	if strings.HasPrefix("false", low) {
		out = append(out, Suggestion{Text: "false"})
	}
	return out
}

// Int32Parser parses an int32 within [Min, Max].
type Int32Parser struct{ Min, Max int32 }

// Int64Parser parses an int64 within [Min, Max].
type Int64Parser struct{ Min, Max int64 }

// Float64Parser parses a float64 within [Min, Max].
type Float64Parser struct{ Min, Max float64 }

var (
	// ErrIntegerTooHigh occurs when the found integer is higher than the specified maximum.
	ErrIntegerTooHigh = errors.New("integer too high")
	// ErrIntegerTooLow occurs when the found integer is lower than the specified minimum.
	ErrIntegerTooLow = errors.New("integer too low")

	// ErrFloatTooHigh occurs when the found float is higher than the specified maximum.
	ErrFloatTooHigh = errors.New("float too high")
	// ErrFloatTooLow occurs when the found float is lower than the specified minimum.
	ErrFloatTooLow = errors.New("float too low")
)

func (t *Int32Parser) String() string { return "int32" }

// Parse implements ArgumentParser.
func (t *Int32Parser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	i, err := parseBoundedInt(input, 32, int64(t.Min), int64(t.Max))
	return int32(i), err
}

func (t *Int64Parser) String() string { return "int64" }

// Parse implements ArgumentParser.
func (t *Int64Parser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	return parseBoundedInt(input, 64, t.Min, t.Max)
}

func parseBoundedInt(input *CommandInput, bitSize int, min, max int64) (int64, error) {
	input.SkipWhitespace(input.RemainingLen())
	start := input.Cursor
	result, err := input.readInt(bitSize)
	if err != nil {
		return 0, err
	}
	if result < min {
		input.Cursor = start
		return 0, fmt.Errorf("%w (%d < %d)", ErrIntegerTooLow, result, min)
	}
	if result > max {
		input.Cursor = start
		return 0, fmt.Errorf("%w (%d > %d)", ErrIntegerTooHigh, result, max)
	}
	return result, nil
}

func (t *Float64Parser) String() string { return "float64" }

// Parse implements ArgumentParser.
func (t *Float64Parser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	input.SkipWhitespace(input.RemainingLen())
	start := input.Cursor
	result, err := input.ReadFloat64()
	if err != nil {
		return 0, err
	}
	if result < t.Min {
		input.Cursor = start
		return 0, fmt.Errorf("%w (%f < %f)", ErrFloatTooLow, result, t.Min)
	}
	if result > t.Max {
		input.Cursor = start
		return 0, fmt.Errorf("%w (%f > %f)", ErrFloatTooHigh, result, t.Max)
	}
	return result, nil
}

// EnumParser parses one of a fixed set of values, case-insensitively,
// producing the canonical value.
type EnumParser struct {
	name   string
	values []string
}

// NewEnumParser returns an EnumParser named name accepting values.
func NewEnumParser(name string, values ...string) *EnumParser {
	return &EnumParser{name: name, values: values}
}

func (t *EnumParser) String() string { return t.name }

// ErrInvalidEnumValue occurs when the input is not one of the enum values.
var ErrInvalidEnumValue = errors.New("invalid enum value")

// Parse implements ArgumentParser.
func (t *EnumParser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	start := input.Cursor
	token := input.ReadString()
	for _, v := range t.values {
		if strings.EqualFold(v, token) {
			return v, nil
		}
	}
	input.Cursor = start
	return nil, &InputError{
		Err:   &InvalidValueError{Parser: t, Value: token, Err: ErrInvalidEnumValue},
		Input: input,
	}
}

// Suggestions implements SuggestionProvider.
func (t *EnumParser) Suggestions(_ *CommandContext, partial string) []Suggestion {
	low := strings.ToLower(partial)
	var out []Suggestion
	for _, v := range t.values {
		if strings.HasPrefix(strings.ToLower(v), low) && !strings.EqualFold(v, partial) {
			out = append(out, Suggestion{Text: v})
		}
	}
	return out
}

// DurationParser parses compound durations of days, hours, minutes and
// seconds, such as 2d12h7m34s. Each unit may appear at most once.
type DurationParser struct{}

func (t *DurationParser) String() string { return "duration" }

// ErrInvalidDuration occurs when the input is not a valid duration.
var ErrInvalidDuration = errors.New("invalid duration")

var durationUnits = []struct {
	unit byte
	d    time.Duration
}{
	{'d', 24 * time.Hour},
	{'h', time.Hour},
	{'m', time.Minute},
	{'s', time.Second},
}

// scanDuration scans s as a sequence of number-unit groups. It returns the
// accumulated duration, the units consumed, whether s ends in the middle of
// a number and whether s is valid so far.
func scanDuration(s string) (total time.Duration, used map[byte]bool, midNumber, valid bool) {
	used = map[byte]bool{}
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			return 0, used, false, false
		}
		if j == len(s) {
			return total, used, true, true
		}
		var unit time.Duration
		found := false
		for _, u := range durationUnits {
			if u.unit == s[j] {
				unit = u.d
				found = true
				break
			}
		}
		if !found || used[s[j]] {
			return 0, used, false, false
		}
		used[s[j]] = true
		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			return 0, used, false, false
		}
		total += time.Duration(n) * unit
		i = j + 1
	}
	return total, used, false, true
}

// Parse implements ArgumentParser.
func (t *DurationParser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	input.SkipWhitespace(input.RemainingLen())
	start := input.Cursor
	token := input.ReadUnquotedString()
	total, used, midNumber, valid := scanDuration(token)
	if !valid || midNumber || len(used) == 0 {
		input.Cursor = start
		return nil, &InputError{
			Err:   &InvalidValueError{Parser: t, Value: token, Err: ErrInvalidDuration},
			Input: input,
		}
	}
	return total, nil
}

// Suggestions implements SuggestionProvider. A partial ending in a number
// completes with each unused unit; a complete group offers starting the
// next one.
func (t *DurationParser) Suggestions(_ *CommandContext, partial string) []Suggestion {
	if partial == "" {
		out := make([]Suggestion, 0, 9)
		for d := '1'; d <= '9'; d++ {
			out = append(out, Suggestion{Text: string(d)})
		}
		return out
	}
	_, used, midNumber, valid := scanDuration(partial)
	if !valid {
		return nil
	}
	var out []Suggestion
	for _, u := range durationUnits {
		if used[u.unit] {
			continue
		}
		if midNumber {
			out = append(out, Suggestion{Text: partial + string(u.unit)})
		} else {
			out = append(out, Suggestion{Text: partial + "1" + string(u.unit)})
		}
	}
	return out
}

// UUIDParser parses an RFC 4122 UUID.
type UUIDParser struct{}

func (t *UUIDParser) String() string { return "uuid" }

// Parse implements ArgumentParser.
func (t *UUIDParser) Parse(_ *CommandContext, input *CommandInput) (interface{}, error) {
	input.SkipWhitespace(input.RemainingLen())
	start := input.Cursor
	token := input.ReadUnquotedString()
	id, err := uuid.Parse(token)
	if err != nil {
		input.Cursor = start
		return nil, &InputError{
			Err:   &InvalidValueError{Parser: t, Value: token, Err: err},
			Input: input,
		}
	}
	return id, nil
}

// Duration returns the parsed duration argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) Duration(name string) time.Duration {
	v, _ := c.store[name].(time.Duration)
	return v
}

// UUID returns the parsed UUID argument stored under name.
// It returns the zero-value if not found.
func (c *CommandContext) UUID(name string) uuid.UUID {
	v, _ := c.store[name].(uuid.UUID)
	return v
}
