package pattern

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func findAll(t *testing.T, text, source string, lim Limits) []Match {
	t.Helper()
	matches, err := FindAll([]rune(text), MustCompile(source, DefaultFlags), lim)
	require.NoError(t, err)
	return matches
}

func TestFindAll_VueDirectives(t *testing.T) {
	matches := findAll(t, `v-if="condition" v-else v-for="item in items"`, `v-(if|else|for)`, DefaultLimits())
	require.Len(t, matches, 3)
	assert.Equal(t, "v-if", matches[0].Text())
	assert.Equal(t, "v-else", matches[1].Text())
	assert.Equal(t, "v-for", matches[2].Text())
	assert.Equal(t, "else", matches[1].Group(1).Text)
}

func TestFindAll_CaptureGroups(t *testing.T) {
	matches := findAll(t, "useState useEffect useContext useReducer", `(use[A-Z]\w*)`, DefaultLimits())
	require.Len(t, matches, 4)
	assert.Equal(t, "useReducer", matches[3].Group(1).Text)
	assert.Equal(t, 30, matches[3].Index)
}

func TestFindAll_TemplateSlots(t *testing.T) {
	text := `<template #header><div v-slot:footer></div></template>`
	tmpl := findAll(t, text, `<template\s+(#[^\s/>]+)`, DefaultLimits())
	require.Len(t, tmpl, 1)
	assert.Equal(t, "#header", tmpl[0].Group(1).Text)

	slot := findAll(t, text, `(v-slot:[^>\s/]+)`, DefaultLimits())
	require.Len(t, slot, 1)
	assert.Equal(t, "v-slot:footer", slot[0].Group(1).Text)
}

func TestFindAll_OffsetsAreCodePoints(t *testing.T) {
	matches := findAll(t, "Hello 世界 测试 v-if", `v-if`, DefaultLimits())
	require.Len(t, matches, 1)
	assert.Equal(t, 12, matches[0].Index)
}

func TestFindAll_EmptyText(t *testing.T) {
	assert.Empty(t, findAll(t, "", `test`, DefaultLimits()))
}

func TestFindAll_ZeroWidth(t *testing.T) {
	matches := findAll(t, "abc", `(?=a)`, DefaultLimits())
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Length)

	matches = findAll(t, "aaaaaaa", `a*`, DefaultLimits())
	require.Len(t, matches, 2)
	assert.Equal(t, 7, matches[0].Length)
	assert.Equal(t, 7, matches[1].Index)
}

func TestFindAll_MatchCap(t *testing.T) {
	matches, err := FindAll([]rune("aaaaaaa"), MustCompile(`a*?`, "g"), Limits{MaxMatches: 3})
	assert.Len(t, matches, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	var limit *LimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, LimitMatches, limit.Reason)
	assert.Equal(t, 3, limit.Count)
}

func TestFindAll_ExactlyAtCapIsNotTruncated(t *testing.T) {
	matches, err := FindAll([]rune("ab ab ab"), MustCompile(`ab`, "g"), Limits{MaxMatches: 3})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestFindAll_HardCap(t *testing.T) {
	text := []rune(strings.Repeat("v-if ", HardMaxMatches+5))
	matches, err := FindAll(text, MustCompile(`v-if`, "g"), Limits{MaxMatches: 15000})
	assert.Len(t, matches, HardMaxMatches)
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestFindAll_EngineTimeout(t *testing.T) {
	p, err := compile(`(a+)+$`, "g", 20*time.Millisecond)
	require.NoError(t, err)

	matches, err := FindAll([]rune(strings.Repeat("a", 40)+"!"), p, DefaultLimits())
	assert.Empty(t, matches)

	var limit *LimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, LimitEngineTimeout, limit.Reason)
}

func TestFindAll_ZeroWidthTerminates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[ab\n]{0,200}`).Draw(t, "text")
		source := rapid.SampledFrom([]string{`a*`, `b*?`, `(?=a)`, `^`, `$`, `\b`, `x*`}).Draw(t, "source")
		max := rapid.IntRange(1, 50).Draw(t, "max")

		matches, err := FindAll([]rune(text), MustCompile(source, DefaultFlags), Limits{MaxMatches: max})
		if len(matches) > max {
			t.Fatalf("got %d matches, cap is %d", len(matches), max)
		}
		if err != nil && !errors.Is(err, ErrLimitExceeded) {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 1; i < len(matches); i++ {
			if matches[i].Index < matches[i-1].End() {
				t.Fatalf("overlapping matches at %d", i)
			}
		}
	})
}

func TestReplaceAll(t *testing.T) {
	upper := func(m Match) string { return "**" + m.Group(1).Text + "**" }

	out, err := ReplaceAll([]rune("v-if v-else v-for"), MustCompile(`v-(\w+)`, "g"), upper, 0)
	require.NoError(t, err)
	assert.Equal(t, "**if** **else** **for**", string(out))

	wrap := func(m Match) string { return "/* " + m.Text() + " */" }
	out, err = ReplaceAll([]rune("defineProps defineEmits defineExpose"), MustCompile(`(define[A-Z]\w*)`, "g"), wrap, 0)
	require.NoError(t, err)
	assert.Equal(t, "/* defineProps */ /* defineEmits */ /* defineExpose */", string(out))
}

func TestReplaceAll_NonGlobalReplacesFirst(t *testing.T) {
	out, err := ReplaceAll([]rune("test"), MustCompile(`t`, ""), func(Match) string { return "x" }, 0)
	require.NoError(t, err)
	assert.Equal(t, "xest", string(out))
}

func TestReplaceAll_CountsIterations(t *testing.T) {
	calls := 0
	out, err := ReplaceAll([]rune("test"), MustCompile(`t`, "g"), func(Match) string {
		calls++
		return "x"
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "xesx", string(out))
}

func TestReplaceAll_IterationLimit(t *testing.T) {
	out, err := ReplaceAll([]rune("aaaa"), MustCompile(`a`, "g"), func(Match) string { return "b" }, 3)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationLimit)
}

func TestReplaceAll_PreservesLengthWhenMasking(t *testing.T) {
	text := []rune("// v-if inside comment\nv-if real")
	blank := func(m Match) string { return strings.Repeat(" ", len([]rune(m.Text()))) }

	out, err := ReplaceAll(text, MustCompile(`//.*`, "gm"), blank, 0)
	require.NoError(t, err)
	assert.Len(t, out, len(text))
	assert.Equal(t, "\nv-if real", string(out[22:]))
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize([]rune("abc"), 3))

	err := CheckSize([]rune("abcd"), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
	assert.NoError(t, CheckSize(make([]rune, DefaultMaxTextLength), 0))
}
