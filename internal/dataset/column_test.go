package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// idsWithNulls mirrors the with-nulls fixture: [null, 2, null, 4, null].
func idsWithNulls() *IntColumn {
	return NewIntColumn([]*int64{nil, ptr[int64](2), nil, ptr[int64](4), nil})
}

func scores() *FloatColumn {
	return FloatColumnFrom([]float64{95.5, 87.3, 92.0, 78.9, 100.0}, nil)
}

func names() *StrColumn {
	return StrColumnFrom([]string{"alice", "bob", "charlie", "diana", "eve"}, nil)
}

func actives() *BoolColumn {
	return BoolColumnFrom([]bool{true, false, true, true, false}, nil)
}

var (
	yes  = Some(true)
	no   = Some(false)
	null = None[bool]()
)

func allColumns() map[string]Column {
	return map[string]Column{
		"int":   idsWithNulls(),
		"float": NewFloatColumn([]*float64{nil, ptr(1.5), ptr(1.5), nil}),
		"str":   NewStrColumn([]*string{ptr("a"), nil, ptr("a"), ptr("b")}),
		"bool":  NewBoolColumn([]*bool{ptr(true), ptr(true), nil}),
		"empty": IntColumnFrom(nil, nil),
	}
}

// TestCountingInvariants locks in the accounting identities that must hold for
// every column variant, including empty ones.
func TestCountingInvariants(t *testing.T) {
	t.Parallel()

	for name, c := range allColumns() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mask := c.IsNull()
			require.Len(t, mask, c.Len())
			nulls := 0
			for _, isNull := range mask {
				if isNull {
					nulls++
				}
			}
			assert.Equal(t, nulls, c.NullCount())
			assert.Equal(t, c.Len(), c.NullCount()+c.NotNullCount())
			assert.Equal(t, c.Len(), c.UniqueCount()+c.DuplicatesCount())
			assert.Equal(t, c.Len() == 0, c.IsEmpty())
		})
	}
}

// TestIsNullMask checks the mask and the null/non-null counts of the
// with-nulls fixture.
func TestIsNullMask(t *testing.T) {
	t.Parallel()

	c := idsWithNulls()
	require.Equal(t, []bool{true, false, true, false, true}, c.IsNull())
	require.Equal(t, 3, c.NullCount())
	require.Equal(t, 2, c.NotNullCount())
}

// TestNumericAggregates_IgnoreNulls verifies that every aggregate is computed
// over non-null values only.
func TestNumericAggregates_IgnoreNulls(t *testing.T) {
	t.Parallel()

	c := idsWithNulls()

	sum, ok := c.Sum()
	require.True(t, ok)
	assert.Equal(t, 6.0, sum)

	isum, _ := c.IntSum()
	assert.Equal(t, int64(6), isum)

	mean, _ := c.Mean()
	assert.Equal(t, 3.0, mean)

	median, _ := c.Median()
	assert.Equal(t, 3.0, median)

	lo, _ := c.Min()
	hi, _ := c.Max()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)

	std, ok := c.Std()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2, std, 1e-12)

	f := NewFloatColumn([]*float64{nil, nil, ptr(3.3), nil, ptr(5.5)})
	fsum, _ := f.Sum()
	assert.InDelta(t, 8.8, fsum, 1e-12)
	fmean, _ := f.Mean()
	assert.InDelta(t, 4.4, fmean, 1e-12)
	fmedian, _ := f.Median()
	assert.InDelta(t, 4.4, fmedian, 1e-12)
}

// TestIntSum_Overflow checks that an int64 overflow is reported rather than
// wrapped, and that Sum and Mean fall back to float accumulation.
func TestIntSum_Overflow(t *testing.T) {
	t.Parallel()

	c := IntColumnFrom([]int64{math.MaxInt64, 1, math.MinInt64, math.MinInt64}, nil)
	_, ok := c.IntSum()
	assert.False(t, ok)

	sum, ok := c.Sum()
	require.True(t, ok)
	assert.InDelta(t, float64(math.MaxInt64)+1+2*float64(math.MinInt64), sum, 1e4)

	big := IntColumnFrom([]int64{math.MaxInt64, math.MaxInt64}, nil)
	mean, ok := big.Mean()
	require.True(t, ok)
	assert.Equal(t, float64(math.MaxInt64), mean)

	neg := IntColumnFrom([]int64{math.MinInt64, -1}, nil)
	_, ok = neg.IntSum()
	assert.False(t, ok)

	edge := IntColumnFrom([]int64{math.MaxInt64, math.MinInt64}, nil)
	s, ok := edge.IntSum()
	require.True(t, ok)
	assert.Equal(t, int64(-1), s)
}

func TestNumericAggregates_KnownValues(t *testing.T) {
	t.Parallel()

	ids := IntColumnFrom([]int64{1, 2, 3, 4, 5}, nil)
	std, ok := ids.Std()
	require.True(t, ok)
	assert.InDelta(t, 1.5811388300841898, std, 1e-12)
	median, _ := ids.Median()
	assert.Equal(t, 3.0, median)

	s := scores()
	lo, _ := s.Min()
	hi, _ := s.Max()
	mean, _ := s.Mean()
	median, _ = s.Median()
	std, _ = s.Std()
	assert.Equal(t, 78.9, lo)
	assert.Equal(t, 100.0, hi)
	assert.InDelta(t, 90.74, mean, 0.01)
	assert.Equal(t, 92.0, median)
	assert.InDelta(t, 8.09, std, 0.01)
}

// TestNumericAggregates_Absence: aggregates are absent for non-numeric and
// all-null columns.
func TestNumericAggregates_Absence(t *testing.T) {
	t.Parallel()

	one := IntColumnFrom([]int64{7}, nil)
	_, ok := one.Std()
	assert.False(t, ok, "std needs at least two values")

	allNull := NewFloatColumn([]*float64{nil, nil})
	sum, ok := allNull.Sum()
	assert.True(t, ok)
	assert.Zero(t, sum)
	for name, agg := range map[string]func() (float64, bool){
		"mean": allNull.Mean, "min": allNull.Min, "max": allNull.Max,
		"std": allNull.Std, "median": allNull.Median,
	} {
		_, ok := agg()
		assert.False(t, ok, name)
	}

	for _, c := range []Column{names(), actives()} {
		for _, agg := range []func() (float64, bool){c.Sum, c.Mean, c.Min, c.Max, c.Std, c.Median} {
			_, ok := agg()
			assert.False(t, ok, "%s aggregates must be absent", c.Type())
		}
	}
}

func TestFloatMinMax_SkipNaN(t *testing.T) {
	t.Parallel()

	c := FloatColumnFrom([]float64{math.NaN(), 2, -1, math.NaN()}, nil)
	lo, _ := c.Min()
	hi, _ := c.Max()
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 2.0, hi)

	onlyNaN := FloatColumnFrom([]float64{math.NaN()}, nil)
	v, ok := onlyNaN.Min()
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))
}

// Even-length medians average the two middle values.
func TestMedian_EvenCount(t *testing.T) {
	t.Parallel()

	c := FloatColumnFrom([]float64{4, 1, 3, 2}, nil)
	m, _ := c.Median()
	assert.Equal(t, 2.5, m)
}

// TestComparisons checks the three-valued comparison results, with null rows
// yielding None.
func TestComparisons(t *testing.T) {
	t.Parallel()

	ids := IntColumnFrom([]int64{1, 2, 3, 4, 5}, nil)
	assert.Equal(t, []Opt[bool]{no, no, no, yes, yes}, ids.Gt(3))
	assert.Equal(t, []Opt[bool]{no, no, yes, yes, yes}, ids.Ge(3))
	assert.Equal(t, []Opt[bool]{yes, yes, no, no, no}, ids.Lt(3))
	assert.Equal(t, []Opt[bool]{yes, yes, yes, no, no}, ids.Le(3))
	assert.Equal(t, []Opt[bool]{no, no, yes, no, no}, ids.Equal(3))
	assert.Equal(t, []Opt[bool]{no, yes, yes, yes, no}, ids.Between(2, 4))

	assert.Equal(t, []Opt[bool]{null, no, null, yes, null}, idsWithNulls().Gt(3))
	assert.Equal(t, []Opt[bool]{yes, no, yes, no, yes}, scores().Between(90, 100))
}

func TestComparisons_OnNonNumericAreAbsent(t *testing.T) {
	t.Parallel()

	want := []Opt[bool]{null, null, null, null, null}
	for _, c := range []Column{actives(), names()} {
		assert.Equal(t, want, c.Gt(1))
		assert.Equal(t, want, c.Ge(1))
		assert.Equal(t, want, c.Lt(1))
		assert.Equal(t, want, c.Le(1))
		assert.Equal(t, want, c.Equal(1))
		assert.Equal(t, want, c.Between(0, 1))
	}
}

// TestStringPredicates covers regex, contains, prefix and suffix matching on
// a Str column with a null row.
func TestStringPredicates(t *testing.T) {
	t.Parallel()

	n := names()
	assert.Equal(t, []Opt[bool]{yes, no, yes, no, no}, n.Contains("li"))
	assert.Equal(t, []Opt[bool]{no, no, no, yes, no}, n.StartsWith("d"))
	assert.Equal(t, []Opt[bool]{yes, no, yes, no, yes}, n.EndsWith("e"))
	assert.Equal(t, []Opt[bool]{yes, yes, yes, no, no}, n.MatchesRegex("^[a-c]"))
	assert.Equal(t, []Opt[bool]{no, yes, no, no, no}, n.EqualStr("bob"))

	withNulls := NewStrColumn([]*string{nil, ptr("bob"), ptr("charlie"), nil, nil})
	assert.Equal(t, []Opt[bool]{null, yes, no, null, null}, withNulls.Contains("bob"))

	assert.Equal(t, []Opt[bool]{null, null, null, null, null}, n.MatchesRegex("(unclosed"),
		"an invalid pattern yields absence, never a panic")
	assert.Equal(t, []Opt[bool]{null, null, null, null, null}, n.MatchesRegexp(nil))
}

func TestStringPredicates_OnNonStringAreAbsent(t *testing.T) {
	t.Parallel()

	want := []Opt[bool]{null, null, null, null, null}
	for _, c := range []Column{IntColumnFrom([]int64{1, 2, 3, 4, 5}, nil), scores(), actives()} {
		assert.Equal(t, want, c.Contains("foo"))
		assert.Equal(t, want, c.StartsWith("f"))
		assert.Equal(t, want, c.EndsWith("o"))
		assert.Equal(t, want, c.MatchesRegex(".*"))
		assert.Equal(t, want, c.EqualStr("1"))
		assert.Equal(t, []Opt[int]{{}, {}, {}, {}, {}}, c.StrLength())
	}
}

func TestStrLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Opt[int]{Some(5), Some(3), Some(7), Some(5), Some(3)}, names().StrLength())

	c := NewStrColumn([]*string{ptr("hi"), ptr("hello"), nil, ptr("é"), ptr("é"), ptr("")})
	assert.Equal(t, []Opt[int]{Some(2), Some(5), None[int](), Some(1), Some(1), Some(0)}, c.StrLength())
}

func TestIsIn(t *testing.T) {
	t.Parallel()

	strs := StrColumnFrom([]string{"ann", "clark", "lana"}, nil)
	assert.Equal(t, []Opt[bool]{yes, no, yes}, strs.IsIn(StrSet{"ann", "lana"}))

	ints := IntColumnFrom([]int64{1, 2, 3, 4}, nil)
	assert.Equal(t, []Opt[bool]{yes, no, yes, no}, ints.IsIn(IntSet{1, 3}))

	floats := FloatColumnFrom([]float64{1.5, 2.5, 3.5}, nil)
	assert.Equal(t, []Opt[bool]{yes, no, yes}, floats.IsIn(FloatSet{1.5, 3.5}))

	assert.Equal(t, []Opt[bool]{null, no, null, yes, null}, idsWithNulls().IsIn(IntSet{4}))
}

// TestIsIn_MismatchedTypesAreAbsent: a set whose element type does not match
// the column yields None for every row, Bool columns included.
func TestIsIn_MismatchedTypesAreAbsent(t *testing.T) {
	t.Parallel()

	ints := IntColumnFrom([]int64{1, 2}, nil)
	floats := FloatColumnFrom([]float64{1, 2}, nil)
	strs := StrColumnFrom([]string{"1", "2"}, nil)
	bools := BoolColumnFrom([]bool{true, false}, nil)
	want := []Opt[bool]{null, null}

	assert.Equal(t, want, ints.IsIn(FloatSet{1}))
	assert.Equal(t, want, ints.IsIn(StrSet{"1"}))
	assert.Equal(t, want, floats.IsIn(IntSet{1}))
	assert.Equal(t, want, strs.IsIn(IntSet{1}))
	assert.Equal(t, want, ints.IsIn(nil))
	for _, set := range []InSetValues{IntSet{1}, FloatSet{1}, StrSet{"true"}} {
		assert.Equal(t, want, bools.IsIn(set))
	}
}

// TestUniqueCount counts null as one distinct value.
func TestUniqueCount(t *testing.T) {
	t.Parallel()

	c := IntColumnFrom([]int64{1, 1, 2, 3}, nil)
	assert.Equal(t, 3, c.UniqueCount())
	assert.Equal(t, 1, c.DuplicatesCount())

	// Every null row collapses into a single distinct value.
	withNulls := NewIntColumn([]*int64{ptr[int64](1), nil, ptr[int64](1), nil})
	assert.Equal(t, 2, withNulls.UniqueCount())
	assert.Equal(t, 2, withNulls.DuplicatesCount())

	oneNull := NewIntColumn([]*int64{ptr[int64](20), nil, ptr[int64](30), ptr[int64](40)})
	assert.Equal(t, 4, oneNull.UniqueCount())
	assert.Zero(t, oneNull.DuplicatesCount())
}

// TestUniqueCount_FloatBitPatterns locks in bit-exact float identity: NaNs
// with different payloads and signed zeros are all distinct, while identical
// NaN bit patterns collapse.
func TestUniqueCount_FloatBitPatterns(t *testing.T) {
	t.Parallel()

	nanA := math.Float64frombits(0x7ff8000000000001)
	nanB := math.Float64frombits(0x7ff8000000000002)
	negZero := math.Copysign(0, -1)

	c := FloatColumnFrom([]float64{nanA, nanB, nanA, 0, negZero, 0}, nil)
	assert.Equal(t, 4, c.UniqueCount())
	assert.Equal(t, 2, c.DuplicatesCount())

	assert.Equal(t, []Opt[bool]{yes, no, yes, no, no, no}, c.IsIn(FloatSet{nanA}))
	assert.Equal(t, []Opt[bool]{no, no, no, no, yes, no}, c.IsIn(FloatSet{negZero}))
}

// TestValuesAndClone checks the pointer view, single-row lookups and that a
// clone keeps the null layout. A validity slice of the wrong length panics.
func TestValuesAndClone(t *testing.T) {
	t.Parallel()

	c := idsWithNulls()
	vals := c.Values()
	require.Len(t, vals, 5)
	assert.Nil(t, vals[0])
	assert.Equal(t, int64(2), *vals[1])

	v, ok := c.Value(3)
	assert.True(t, ok)
	assert.Equal(t, int64(4), v)
	_, ok = c.Value(0)
	assert.False(t, ok)

	clone := c.Clone()
	assert.Equal(t, c.IsNull(), clone.IsNull())
	assert.Equal(t, c.String(), clone.String())

	assert.Panics(t, func() { IntColumnFrom([]int64{1, 2}, []bool{true}) })
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[i64]: [null, 2, null, 4, null]", idsWithNulls().String())
	assert.Equal(t, "[f64]: [20.3, 40]", FloatColumnFrom([]float64{20.3, 40}, nil).String())
	assert.Equal(t, `[str]: ["ann", null]`, NewStrColumn([]*string{ptr("ann"), nil}).String())
	assert.Equal(t, "[bool]: [true, false, true, true, false]", actives().String())

	long := IntColumnFrom([]int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, nil)
	assert.Equal(t, "[i64]: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, ... (12 total)]", long.String())
}
