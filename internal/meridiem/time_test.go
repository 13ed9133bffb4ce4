package meridiem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "morning", raw: "11:00am", want: "11:00am"},
		{name: "afternoon", raw: "1:30pm", want: "1:30pm"},
		{name: "midnight boundary", raw: "12:00am", want: "12:00am"},
		{name: "noon boundary", raw: "12:00pm", want: "12:00pm"},
		{name: "24 hour input", raw: "13:30", want: "1:30pm"},
		{name: "24 hour midnight", raw: "0:00", want: "12:00am"},
		{name: "uppercase meridiem", raw: "1:30PM", want: "1:30pm"},
		{name: "spaced meridiem", raw: "1:30 pm", want: "1:30pm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseTime(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.String())
		})
	}
}

func TestParseTimeRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "1pm", "25:00", "1:75am", "1:00xx", "noonish"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTime(raw)
			assert.Error(t, err)
		})
	}
}

func TestTimeOrderingWithinPhase(t *testing.T) {
	a := MustParseTime("11:00am")
	b := MustParseTime("1:00pm")
	c := MustParseTime("6:00pm")

	// Exactly one of <, ==, > holds for each pair, and ordering is transitive.
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Equal(b))

	assert.True(t, b.Before(c))
	assert.True(t, a.Before(c))

	assert.True(t, a.Equal(MustParseTime("11:00am")))
}

func TestTimeOrderingPhaseDominates(t *testing.T) {
	lateToday := MustParseTime("11:00pm")
	earlyTomorrow := MustParseTime("1:00am").WithPhase(1)

	assert.True(t, lateToday.Before(earlyTomorrow))
	assert.True(t, earlyTomorrow.After(lateToday))
	assert.False(t, lateToday.Equal(MustParseTime("11:00pm").WithPhase(1)))
}

func TestTimeAddRollsMeridiemAndPhase(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		tick      string
		want      string
		wantPhase int
	}{
		{name: "simple add", start: "11:00am", tick: "1hr", want: "12:00pm"},
		{name: "cross meridiem", start: "11:00am", tick: "2hr", want: "1:00pm"},
		{name: "minute roll", start: "11:45am", tick: "30m", want: "12:15pm"},
		{name: "cross midnight", start: "11:00pm", tick: "2hr", want: "1:00am", wantPhase: 1},
		{name: "full day", start: "12:00am", tick: "24hr", want: "12:00am", wantPhase: 1},
		{name: "negative tick subtracts", start: "1:00pm", tick: "-2hr", want: "11:00am"},
		{name: "negative tick across midnight", start: "1:00am", tick: "-2hr", want: "11:00pm", wantPhase: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseTime(tt.start).Add(MustParseTick(tt.tick))
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.wantPhase, got.Phase())
		})
	}
}

func TestTimeSubIsAddOfNegation(t *testing.T) {
	start := MustParseTime("1:00pm")

	assert.Equal(t, MustParseTime("11:00am"), start.Sub(MustParseTick("2hr")))
	assert.Equal(t, MustParseTime("3:00pm"), start.Sub(MustParseTick("-2hr")))
}

func TestInferTick(t *testing.T) {
	t.Run("cross meridiem", func(t *testing.T) {
		tick := InferTick(MustParseTime("11:00am"), MustParseTime("1:00pm"))
		assert.Equal(t, MustParseTick("2hr"), tick)
	})

	t.Run("reversed pair is negative with same magnitude", func(t *testing.T) {
		tick := InferTick(MustParseTime("1:00pm"), MustParseTime("11:00am"))
		assert.True(t, tick.IsNegative())
		assert.Equal(t, 2, tick.Hours())
		assert.Equal(t, 0, tick.Minutes())
	})

	t.Run("across a day boundary", func(t *testing.T) {
		tick := InferTick(MustParseTime("12:00am"), MustParseTime("12:00am").WithPhase(1))
		assert.Equal(t, MustParseTick("24hr"), tick)
	})

	t.Run("negative phase origin", func(t *testing.T) {
		tick := InferTick(MustParseTime("11:00pm").WithPhase(-1), MustParseTime("1:00am"))
		assert.Equal(t, MustParseTick("2hr"), tick)
	})
}

func TestInferTickRoundTrip(t *testing.T) {
	// infer(a, a+t) == t for non-negative ticks, including across a phase roll.
	times := []string{"12:00am", "9:15am", "11:30pm"}
	ticks := []string{"0m", "30m", "2hr", "5hr45m", "24hr"}

	for _, base := range times {
		for _, raw := range ticks {
			a := MustParseTime(base)
			tick := MustParseTick(raw)
			inferred := InferTick(a, a.Add(tick))
			assert.Equal(t, tick.TotalMinutes(), inferred.TotalMinutes(), "base %s tick %s", base, raw)
		}
	}
}

func TestIterator(t *testing.T) {
	collect := func(start, end string, tick string) []string {
		it := NewIterator(MustParseTime(start), MustParseTime(end), MustParseTick(tick))
		var out []string
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, v.String())
		}
		return out
	}

	t.Run("steps up to but excluding end", func(t *testing.T) {
		assert.Equal(t, []string{"12:00pm", "2:00pm", "4:00pm"}, collect("12:00pm", "6:00pm", "2hr"))
	})

	t.Run("single step range", func(t *testing.T) {
		assert.Equal(t, []string{"1:00pm"}, collect("1:00pm", "3:00pm", "2hr"))
	})

	t.Run("no step fits", func(t *testing.T) {
		assert.Empty(t, collect("1:00pm", "2:00pm", "2hr"))
	})

	t.Run("crosses midnight into the next phase", func(t *testing.T) {
		it := NewIterator(
			MustParseTime("11:00pm"),
			MustParseTime("1:00am").WithPhase(1),
			MustParseTick("1hr"),
		)

		first, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, "11:00pm", first.String())
		assert.Equal(t, 0, first.Phase())

		second, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, "12:00am", second.String())
		assert.Equal(t, 1, second.Phase())

		_, ok = it.Next()
		assert.False(t, ok)
	})
}
