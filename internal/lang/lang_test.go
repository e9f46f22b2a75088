package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".ipf", "igor"},
		{".py", ""},
		{".IPF", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ForExtension(tt.ext))
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	igor, ok := Languages["igor"]
	require.True(t, ok, "igor language not registered")

	m, err := igor.GetMatcher()
	require.NoError(t, err)
	require.NotNil(t, m)

	again, err := igor.GetMatcher()
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestIgorDefinition(t *testing.T) {
	t.Parallel()

	m, err := Languages["igor"].GetMatcher()
	require.NoError(t, err)

	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"simple", "Function Foo()", "Foo", true},
		{"tabs", "Function\t\tBar_2(w)", "Bar_2", true},
		{"trailing cr", "Function Baz\r", "Baz", true},
		{"static prefix", "static Function Hidden()", "", false},
		{"indented", "  Function Foo()", "", false},
		{"lower case", "function foo()", "", false},
		{"no space", "FunctionFoo()", "", false},
		{"keyword only", "Function", "", false},
		{"macro", "Macro Foo()", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := m.Definition(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIgorInclude(t *testing.T) {
	t.Parallel()

	m, err := Languages["igor"].GetMatcher()
	require.NoError(t, err)

	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{"simple", `#include "helper"`, "helper", true},
		{"spaces in name", `#include "clusteringPanel v1"`, "clusteringPanel v1", true},
		{"trailing comment", `#include "helper" // shared`, "helper", true},
		{"angle brackets", `#include <Graph Utility Procs>`, "", false},
		{"empty quotes", `#include ""`, "", false},
		{"pragma", `#pragma rtGlobals=3`, "", false},
		{"indented", `  #include "helper"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := m.Include(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcherPatternsAreIndependent(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher(`^(?:Function|#include)\s+(\w+)`, `^.*"(\w+)"`)
	require.NoError(t, err)

	line := `Function Foo // see "helper"`
	def, ok := m.Definition(line)
	require.True(t, ok)
	assert.Equal(t, "Foo", def)

	inc, ok := m.Include(line)
	require.True(t, ok)
	assert.Equal(t, "helper", inc)
}

func TestNewMatcherRejectsBadPatterns(t *testing.T) {
	t.Parallel()

	_, err := NewMatcher(`^Function\s+\w+`, IgorIncludePattern)
	assert.ErrorContains(t, err, "define pattern")

	_, err = NewMatcher(IgorDefinePattern, `^#include\s+"(.+)"(x)`)
	assert.ErrorContains(t, err, "include pattern")

	_, err = NewMatcher(`(`, IgorIncludePattern)
	assert.Error(t, err)
}
