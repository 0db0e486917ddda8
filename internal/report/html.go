// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// barResolution is the fixed character width of a score bar, matching the
// original tool's 25-character ASCII bar.
const barResolution = 25

// Renderer emits one HTML page per (sourceFile, parentCallPath) pair into
// outDir, resolving bare filenames through resolve.
type Renderer struct {
	OutDir  string
	Resolve func(bareName string) (path string, ok bool)
}

// NewRenderer creates a Renderer writing pages into outDir.
func NewRenderer(outDir string, resolve func(string) (string, bool)) *Renderer {
	return &Renderer{OutDir: outDir, Resolve: resolve}
}

// Render walks the store's pages in (depth, parentCallPath, sourceFile,
// lineNumber) order and writes each one as an HTML file into OutDir.
func (r *Renderer) Render(s *Store) error {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return fmt.Errorf("report: creating output directory %s: %w", r.OutDir, err)
	}
	for _, page := range s.Pages() {
		if err := r.renderPage(page); err != nil {
			return err
		}
	}
	return nil
}

// lineAnnotation is a line of the page's source file, with every finding
// recorded on it.
type lineAnnotation struct {
	lineNo   int
	text     string
	findings []Finding
}

func (r *Renderer) renderPage(page Page) error {
	resolved, ok := r.Resolve(page.SourceFile)
	if !ok {
		// Can't render a page for a file we can't read; the finding
		// still exists on its parent's page.
		return nil
	}
	src, err := os.Open(resolved)
	if err != nil {
		return fmt.Errorf("report: opening source %s: %w", resolved, err)
	}
	defer src.Close()

	byLine := make(map[int][]Finding)
	var total int64
	for _, f := range page.Findings {
		byLine[f.Line] = append(byLine[f.Line], f)
		total += f.Delta()
	}

	outPath := filepath.Join(r.OutDir, page.ParentCallPath.PageFilename())
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("report: creating page %s: %w", outPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "<html><head><title>%s</title></head><body>\n", html.EscapeString(page.SourceFile))
	fmt.Fprintf(w, "<kbd>gdbsearch file:%s</kbd><br>\n", html.EscapeString(page.SourceFile))

	sc := bufio.NewScanner(src)
	anchor := 0
	var anchors []int
	lineNo := 0
	for sc.Scan() {
		lineNo++
		findings := byLine[lineNo]
		sort.Slice(findings, func(i, j int) bool { return findings[i].StepIndex < findings[j].StepIndex })

		if len(findings) == 0 {
			writeBar(w, sc.Text())
			continue
		}
		anchor++
		anchors = append(anchors, anchor)
		writeAnnotatedLine(w, findings, total, sc.Text(), anchor)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("report: reading source %s: %w", resolved, err)
	}

	writeAnchorNav(w, anchors)
	fmt.Fprintf(w, "</body></html>\n")
	return w.Flush()
}

// writeBar renders one unannotated line: an empty score bar plus the
// escaped source text.
func writeBar(w *bufio.Writer, line string) {
	bar := strings.Repeat("-", barResolution)
	escaped := strings.ReplaceAll(html.EscapeString(line), " ", "&nbsp;")
	fmt.Fprintf(w, "<kbd>%s%s</kbd><br>\n", bar, escaped)
}

// writeAnnotatedLine renders a line with one or more Findings: an
// aggregate score bar, a sequential anchor id, and one hyperlink per
// finding (tagged by frame ordinal) to the callee's page, with a tooltip
// enumerating the per-frame deltas.
func writeAnnotatedLine(w *bufio.Writer, findings []Finding, total int64, line string, anchor int) {
	var sum int64
	for _, f := range findings {
		sum += f.Delta()
	}
	score := 0
	if total > 0 {
		score = int(sum * barResolution / total)
		if score > barResolution {
			score = barResolution
		}
	}
	bar := strings.Repeat("#", score) + strings.Repeat("-", barResolution-score)
	escaped := strings.ReplaceAll(html.EscapeString(line), " ", "&nbsp;")

	tooltip := tooltipFor(findings)
	fmt.Fprintf(w, `<a id="f%d"></a>`+"\n", anchor)
	fmt.Fprintf(w, `<kbd title="%s">%s</kbd> `, html.EscapeString(tooltip), bar)
	for i, f := range findings {
		fmt.Fprintf(w, `<a href="%s" title="frame %d: %d -&gt; %d">[%d]</a> `,
			html.EscapeString(f.ChildPath().PageFilename()), i, f.PrevMetric, f.NewMetric, i)
	}
	fmt.Fprintf(w, "%s<br>\n", escaped)
}

func tooltipFor(findings []Finding) string {
	parts := make([]string, len(findings))
	for i, f := range findings {
		parts[i] = fmt.Sprintf("frame %d: %d -> %d", i, f.PrevMetric, f.NewMetric)
	}
	return strings.Join(parts, "; ")
}

// writeAnchorNav emits previous/next links for each annotated anchor, so a
// reader can scan findings without hunting through the page.
func writeAnchorNav(w *bufio.Writer, anchors []int) {
	if len(anchors) < 2 {
		return
	}
	fmt.Fprintf(w, "<hr><p>")
	for i, a := range anchors {
		if i > 0 {
			fmt.Fprintf(w, `<a href="#f%d">&larr;</a> `, anchors[i-1])
		}
		fmt.Fprintf(w, `<a href="#f%d">#%d</a> `, a, a)
		if i < len(anchors)-1 {
			fmt.Fprintf(w, `<a href="#f%d">&rarr;</a> `, anchors[i+1])
		}
	}
	fmt.Fprintf(w, "</p>\n")
}
