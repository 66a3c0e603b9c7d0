// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/shepard-terminal/internal/terminal"
)

// PermissionMarkdown renders the permission catalog as a markdown document.
func PermissionMarkdown(groups []terminal.PermissionGroup) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + g.Title + "\n\n")
		for _, e := range g.Entries {
			b.WriteString("- `" + e.Name + "` " + e.Description + "\n")
		}
	}
	return b.String()
}

// permissionTree renders the catalog once per width.
func (r *Renderer) permissionTree(width int) string {
	if r.permTree != "" && r.permTreeWidth == width {
		return r.permTree
	}
	md := PermissionMarkdown(terminal.PermissionCatalog)

	out, err := r.markdown(md, width)
	if err != nil {
		out = md
	}
	r.permTree = strings.Trim(out, "\n")
	r.permTreeWidth = width
	return r.permTree
}

// markdown picks a glamour style that matches the theme.
func (r *Renderer) markdown(md string, width int) (string, error) {
	style := "light"
	switch {
	case r.theme.ColorProfile == termenv.Ascii:
		style = "notty"
	case r.theme.IsDark:
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}
