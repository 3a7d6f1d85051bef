// Package render converts step content into HTML safe to hand to the UI
// layer.
//
// Model output is markdown and must never reach the DOM unsanitized; the
// renderer pairs goldmark conversion with a bluemonday UGC policy.
package render

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/forgeui/streamfeed/step"
)

// Renderer converts markdown to sanitized HTML. Construct one per process;
// it is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a renderer with GitHub-flavored markdown and a UGC
// sanitization policy.
func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// HTML converts markdown to sanitized HTML.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

// StepHTML renders a step's content. For failed steps the content is the
// failure message, which still passes through sanitization.
func (r *Renderer) StepHTML(s step.Step) (string, error) {
	return r.HTML(s.Content)
}
