// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader
// source code for @oxy: annotations written as line comments, replaces them with
// registered GLSL snippets, and injects #define lines for constants that must stay
// in sync with the Go side (for example the light array capacity).
//
// Supported annotations:
//   - // @oxy:include <name>   replaced with the snippet registered under name
//
// Defines registered with Define are emitted directly after the #version line, or
// at the top of the source when there is none.
package shader

import (
	"fmt"
	"sort"
	"strings"
)

const annotationPrefix = "@oxy:"

// PreProcessor processes raw GLSL shader source code containing @oxy: annotations.
type PreProcessor interface {
	// Define registers a constant emitted as "#define name value" in every processed source.
	//
	// Parameters:
	//   - name: the macro name
	//   - value: the macro body, formatted with %v
	Define(name string, value any)

	// Include registers a GLSL snippet that "// @oxy:include name" lines are replaced with.
	//
	// Parameters:
	//   - name: the include key
	//   - source: the GLSL text to inject
	Include(name, source string)

	// Process returns source with annotations replaced and defines injected.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if an annotation is malformed or names an unknown include
	Process(source string) (string, error)

	// Includes returns the include names resolved during the most recent Process call, in source order.
	//
	// Returns:
	//   - []string: the resolved include names
	Includes() []string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	defines  map[string]string
	includes map[string]string
	resolved []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates an empty PreProcessor.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		defines:  make(map[string]string),
		includes: make(map[string]string),
	}
}

func (p *preProcessor) Define(name string, value any) {
	p.defines[name] = fmt.Sprint(value)
}

func (p *preProcessor) Include(name, source string) {
	p.includes[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	p.resolved = p.resolved[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines)+len(p.defines))

	injected := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !injected && strings.HasPrefix(trimmed, "#version") {
			out = append(out, line)
			out = append(out, p.defineLines()...)
			injected = true
			continue
		}

		body, ok := strings.CutPrefix(trimmed, "//")
		if !ok {
			out = append(out, line)
			continue
		}
		body = strings.TrimSpace(body)
		directive, ok := strings.CutPrefix(body, annotationPrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(directive)
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty annotation", i+1)
		}
		switch fields[0] {
		case "include":
			if len(fields) != 2 {
				return "", fmt.Errorf("line %d: @oxy:include takes exactly one argument", i+1)
			}
			snippet, ok := p.includes[fields[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, fields[1])
			}
			out = append(out, snippet)
			p.resolved = append(p.resolved, fields[1])
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, fields[0])
		}
	}

	if !injected && len(p.defines) > 0 {
		out = append(p.defineLines(), out...)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return append([]string(nil), p.resolved...)
}

func (p *preProcessor) defineLines() []string {
	names := make([]string, 0, len(p.defines))
	for name := range p.defines {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("#define %s %s", name, p.defines[name]))
	}
	return lines
}
