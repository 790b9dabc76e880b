// Package mdpress renders Markdown documents to styled, paginated PDFs
// using headless Chrome, and reports where the result can be downloaded.
//
// # Quick Start
//
// Create a service, convert a document, and close when done:
//
//	svc := mdpress.New()
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, mdpress.Input{
//	    FileName: "report",
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.DownloadURL) // http://localhost:8000/report.pdf
//
// Each conversion writes two files to the output directory: the staged
// markdown source (report.md) and the rendered document (report.pdf).
//
// # Conversion Pipeline
//
// A document moves through four stages:
//
//  1. Diagram preprocessing (mermaid fences become client-rendered containers)
//  2. Client script injection (MathJax configuration, mermaid initialization)
//  3. Markdown to HTML conversion via Goldmark (GFM, footnotes, definition
//     lists, emoji, admonitions, math, syntax highlighting)
//  4. PDF rendering via headless Chrome (go-rod), after typesetting and
//     diagram hydration settle
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mdpress.New(
//	    mdpress.WithTimeout(2 * time.Minute),
//	    mdpress.WithOutputDir("/var/lib/mdpress"),
//	    mdpress.WithBaseURL("https://docs.example.com"),
//	    mdpress.WithStylesheet("/etc/mdpress/custom.css"),
//	    mdpress.WithPageSize(mdpress.PageSizeLetter),
//	    mdpress.WithMargin(0.75),
//	)
//
// # Extended Syntax
//
// Beyond GitHub Flavored Markdown, documents may use:
//
//	:rocket:                 emoji shortcodes
//	- [x] done               task list checkboxes
//	Text[^1]                 footnotes
//	Term\n: definition       definition lists
//	$x^2$ and $$...$$        inline and display math
//	::: warning ... :::      admonition containers (warning, info)
//	```mermaid ... ```       diagrams, rendered in the browser
//
// # Browser
//
// Rendering needs Chrome or Chromium. When none is installed, go-rod
// fetches a managed Chromium build on first use (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to point at a pre-installed binary; in CI (CI=true)
// the browser runs without a sandbox.
package mdpress
