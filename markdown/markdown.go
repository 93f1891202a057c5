// Package markdown renders post bodies to HTML with goldmark, exposed both as
// bytes and as a templ component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// The engine is stateless after construction and shared for the lifetime of
// the process.
var shared struct {
	once   sync.Once
	engine goldmark.Markdown
}

func engine() goldmark.Markdown {
	shared.once.Do(func() {
		shared.engine = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		)
	})
	return shared.engine
}

// Render converts md to HTML. Raw HTML in the source is omitted and
// dangerous link schemes are dropped.
func Render(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine().Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("markdown: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md []byte) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Render(md)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})
}
