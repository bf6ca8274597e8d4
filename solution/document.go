package solution

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/willibrandon/gosln/observability"
)

// Document is a solution file held in memory. Sections are kept as *Section
// values and regenerated on write; every other line is written back verbatim.
type Document struct {
	// Path is the absolute path the document was read from and is saved to
	Path string

	solution *Solution
	lines    []*docLine
	bom      bool
	crlf     bool
}

// docLine is either a verbatim line or a section block.
type docLine struct {
	text string

	section *Section
	indent  string
	global  bool

	// kept are lines inside the section that are not entries. They are
	// written back unchanged at their original place among the entries.
	kept []keptLine
}

// keptLine is a verbatim section line preceded by after entries when read.
type keptLine struct {
	after int
	text  string
}

func (l *docLine) keyword() string {
	if l.global {
		return "GlobalSection"
	}
	return "ProjectSection"
}

func (l *docLine) endMarker() string {
	return "End" + l.keyword()
}

// Solution returns the parsed solution model. Its sections are shared with
// the document, so edits made through it are written by WriteTo.
func (d *Document) Solution() *Solution {
	return d.solution
}

// Sections returns every section of the document in file order.
func (d *Document) Sections() []*Section {
	var sections []*Section
	for _, l := range d.lines {
		if l.section != nil {
			sections = append(sections, l.section)
		}
	}
	return sections
}

// GlobalSection returns the first global section with the given name.
func (d *Document) GlobalSection(name string) (*Section, bool) {
	return d.solution.GlobalSection(name)
}

// ProjectSection returns the named section of the project or solution folder
// with the given GUID.
func (d *Document) ProjectSection(projectGUID, name string) (*Section, bool) {
	if p, ok := d.solution.GetProjectByGUID(projectGUID); ok {
		return p.Section(name)
	}
	guid := normalizeGUID(projectGUID)
	for i := range d.solution.SolutionFolders {
		f := &d.solution.SolutionFolders[i]
		if f.GUID != guid {
			continue
		}
		for _, s := range f.Sections {
			if s.Name() == name {
				return s, true
			}
		}
	}
	return nil, false
}

// AddGlobalSection appends s to the Global block, creating the block if the
// file has none.
func (d *Document) AddGlobalSection(s *Section) {
	dl := &docLine{section: s, indent: "\t", global: true}

	insertAt := -1
	for i, l := range d.lines {
		if l.section == nil && strings.TrimSpace(l.text) == "EndGlobal" {
			insertAt = i
			break
		}
	}

	if insertAt < 0 {
		d.lines = append(d.lines, &docLine{text: "Global"}, dl, &docLine{text: "EndGlobal"})
	} else {
		d.lines = slices.Insert(d.lines, insertAt, dl)
	}
	d.solution.GlobalSections = append(d.solution.GlobalSections, s)
}

// RemoveGlobalSection removes every global section with the given name and
// reports whether any was removed.
func (d *Document) RemoveGlobalSection(name string) bool {
	before := len(d.lines)
	d.lines = slices.DeleteFunc(d.lines, func(l *docLine) bool {
		return l.section != nil && l.global && l.section.Name() == name
	})
	d.solution.GlobalSections = slices.DeleteFunc(d.solution.GlobalSections, func(s *Section) bool {
		return s.Name() == name
	})
	return len(d.lines) != before
}

// WriteTo writes the document in .sln format, preserving the byte order mark
// and line endings of the original file.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	eol := "\n"
	if d.crlf {
		eol = "\r\n"
	}

	if d.bom {
		_, _ = cw.Write(utf8BOM)
	}
	for _, l := range d.lines {
		if l.section == nil {
			cw.writeString(l.text, eol)
			continue
		}
		s := l.section
		cw.writeString(fmt.Sprintf("%s%s(%s) = %s", l.indent, l.keyword(), s.Name(), s.Type()), eol)
		k, i := 0, 0
		for key, value := range s.All() {
			for ; k < len(l.kept) && l.kept[k].after <= i; k++ {
				cw.writeString(l.kept[k].text, eol)
			}
			cw.writeString(l.indent+"\t"+key+" = "+value, eol)
			i++
		}
		for ; k < len(l.kept); k++ {
			cw.writeString(l.kept[k].text, eol)
		}
		cw.writeString(l.indent+l.endMarker(), eol)
	}

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// String returns the document text.
func (d *Document) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

// Save writes the document back to Path through a temporary file in the
// same directory.
func (d *Document) Save(ctx context.Context) (err error) {
	_, span := observability.StartSolutionSaveSpan(ctx, d.Path, len(d.Sections()))
	defer func() { observability.EndSpanWithError(span, err) }()

	tmp, err := os.CreateTemp(filepath.Dir(d.Path), filepath.Base(d.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if info, statErr := os.Stat(d.Path); statErr == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write solution: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("failed to replace solution file: %w", err)
	}
	return nil
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) writeString(s, eol string) {
	_, _ = c.Write([]byte(s + eol))
}
