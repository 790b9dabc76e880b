// Package assets provides the CSS styles embedded into rendered documents.
//
// Styles are compiled in via go:embed and addressed by name without the
// .css extension. The default style ("document") carries the full print
// look: typography, admonition boxes, diagram containers, syntax
// highlighting classes, and page-break rules.
//
// # Name validation
//
// Asset names are validated before touching the embedded filesystem.
// Names containing separators or dots are rejected, so lookups cannot
// traverse outside the styles tree.
package assets
