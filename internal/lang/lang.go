// Package lang provides a language registry mapping file extensions to the
// line patterns used to find definitions and includes.
package lang

import (
	"fmt"
	"regexp"
	"sync"
)

// Language holds the textual patterns for a supported procedure language.
type Language struct {
	Name       string
	Extensions []string

	// DefinePattern must capture the defined identifier in group 1.
	DefinePattern string

	// IncludePattern must capture the include target in group 1.
	IncludePattern string

	matcherOnce sync.Once
	matcher     *Matcher
	matcherErr  error
}

// GetMatcher returns the compiled matcher (safe to share across goroutines).
func (l *Language) GetMatcher() (*Matcher, error) {
	l.matcherOnce.Do(func() {
		l.matcher, l.matcherErr = NewMatcher(l.DefinePattern, l.IncludePattern)
	})
	return l.matcher, l.matcherErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// Matcher applies a definition pattern and an include pattern to single
// lines. The two checks are independent; a line may match both.
type Matcher struct {
	define  *regexp.Regexp
	include *regexp.Regexp
}

// NewMatcher compiles the two patterns. Each must have exactly one capture group.
func NewMatcher(definePattern, includePattern string) (*Matcher, error) {
	define, err := compileOneGroup(definePattern)
	if err != nil {
		return nil, fmt.Errorf("define pattern: %w", err)
	}
	include, err := compileOneGroup(includePattern)
	if err != nil {
		return nil, fmt.Errorf("include pattern: %w", err)
	}
	return &Matcher{define: define, include: include}, nil
}

func compileOneGroup(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("%q has %d capture groups, want 1", pattern, n)
	}
	return re, nil
}

// Definition returns the identifier defined on line, if any.
func (m *Matcher) Definition(line string) (string, bool) {
	return firstGroup(m.define, line)
}

// Include returns the include target named on line, if any.
func (m *Matcher) Include(line string) (string, bool) {
	return firstGroup(m.include, line)
}

func firstGroup(re *regexp.Regexp, line string) (string, bool) {
	sub := re.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}
