// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown is the shared renderer for post bodies. GFM covers tables,
// strikethrough, and autolinks; hard wraps stay soft so prose sources
// can be reflowed freely.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// renderMarkdown converts a markdown source to the HTML body stored
// alongside it in a post message.
func renderMarkdown(source string) (string, error) {
	var rendered strings.Builder
	if err := markdown.Convert([]byte(source), &rendered); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(rendered.String(), "\n"), nil
}

// readBody reads a post body from a file path, or stdin when the path
// is "-".
func readBody(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading body from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading body file: %w", err)
	}
	return string(data), nil
}
