package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafe_RejectsCatastrophicShapes(t *testing.T) {
	unsafe := []string{
		`(a*)*`,
		`(a+)*`,
		`(a+)+`,
		`(a*)+`,
		`(x\d+)+y`,
		`a*+`,
		`a+*`,
		`a{10,}*`,
		`a{10,}+`,
		`a{10,}\*`,
		`a{12,20}+`,
		"[" + strings.Repeat("a", 60) + "]",
	}
	for _, src := range unsafe {
		t.Run(src, func(t *testing.T) {
			assert.False(t, IsSafe(src), "expected %q to be rejected", src)
			assert.NotEmpty(t, Check(src))
		})
	}
}

func TestIsSafe_AcceptsDefaultRules(t *testing.T) {
	safe := []string{
		`v-if`,
		`v-else-if`,
		`v-else`,
		`v-for`,
		`v-bind`,
		`v-once`,
		`v-on`,
		`v-html`,
		`v-text`,
		`:is`,
		`<template\s+(\#[^\s\/>=]+)`,
		`(v-slot:[^>\s\/>]+)`,
		`(defineProps)[<\(]`,
		`defineOptions`,
		`defineEmits`,
		`defineExpose`,
		`(define[A-Z]\w*)`,
		`(use[A-Z]\w*)`,
		`defineProps\b`,
		`[a-zA-Z0-9]`,
		`a{1,5}`,
		`[^>\s/]+`,
		`^$`,
		`\d+\.\d+`,
		`[一-鿿]+`,
		`[a-zA-Z0-9_$]+\s*=\s*[a-zA-Z0-9_$]+`,
		`(###) `,
		"[" + strings.Repeat("a", 50) + "]",
	}
	for _, src := range safe {
		t.Run(src, func(t *testing.T) {
			assert.True(t, IsSafe(src), "expected %q to be accepted, got %q", src, Check(src))
		})
	}
}
