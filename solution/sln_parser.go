package solution

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willibrandon/gosln/observability"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	formatVersionRegex = regexp.MustCompile(`^Microsoft Visual Studio Solution File, Format Version (\S+)`)
	vsVersionRegex     = regexp.MustCompile(`^VisualStudioVersion = (\S+)`)
	minVSVersionRegex  = regexp.MustCompile(`^MinimumVisualStudioVersion = (\S+)`)

	// Project("{GUID}") = "Name", "Path", "{GUID}"
	projectRegex = regexp.MustCompile(
		`(?i)^Project\("\{([A-F0-9-]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{([A-F0-9-]+)\}"`,
	)

	// GlobalSection(Name) = type / ProjectSection(Name) = type
	sectionHeaderRegex = regexp.MustCompile(`^(\s*)(GlobalSection|ProjectSection)\(([^)]*)\)\s*=\s*(.*?)\s*$`)
)

// SlnParser parses text-based .sln files (MSBuild format)
type SlnParser struct {
	logger observability.Logger
}

// NewSlnParser creates a new .sln file parser. A nil logger discards output.
func NewSlnParser(logger observability.Logger) *SlnParser {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &SlnParser{logger: logger}
}

// ParseFile reads a .sln file without logging.
func ParseFile(ctx context.Context, path string) (*Document, error) {
	return NewSlnParser(nil).Parse(ctx, path)
}

// CanParse checks if this parser supports the given file
func (p *SlnParser) CanParse(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sln")
}

// Parse reads and parses a .sln file
func (p *SlnParser) Parse(ctx context.Context, path string) (*Document, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{
			FilePath: path,
			Message:  "not a .sln file",
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("cannot open file: %v", err),
		}
	}
	defer func() { _ = file.Close() }()

	return p.ParseReader(ctx, file, path)
}

// ParseReader parses .sln content from r. path is recorded as the document
// location and used to resolve project paths.
func (p *SlnParser) ParseReader(ctx context.Context, r io.Reader, path string) (doc *Document, err error) {
	ctx, span := observability.StartSolutionParseSpan(ctx, path)
	defer func() {
		observability.RecordSolutionParse(err)
		observability.EndSpanWithError(span, err)
	}()

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	st := &parseState{
		logger: p.logger.ForContext("SolutionPath", path),
		path:   path,
		doc: &Document{
			Path: absPath,
			solution: &Solution{
				FilePath:        absPath,
				SolutionDir:     filepath.Dir(absPath),
				Projects:        []Project{},
				SolutionFolders: []SolutionFolder{},
			},
		},
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("error reading file: %v", err),
		}
	}
	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok {
		st.doc.bom = true
		data = rest
	}
	st.doc.crlf = bytes.Contains(data, []byte("\r\n"))

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		st.lineNum++
		if err := st.line(scanner.Text()); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("error reading file: %v", err),
		}
	}

	if err := st.finish(); err != nil {
		return nil, err
	}

	sol := st.doc.solution
	st.logger.DebugContext(ctx, "Parsed solution with {ProjectCount} projects and {GlobalSectionCount} global sections",
		len(sol.Projects), len(sol.GlobalSections))
	span.SetAttributes(observability.AttrProjectCount.Int(len(sol.Projects)))

	return st.doc, nil
}

type parseState struct {
	logger  observability.Logger
	path    string
	doc     *Document
	lineNum int

	inGlobal       bool
	currentProject *Project
	currentFolder  *SolutionFolder
	current        *docLine
}

func (st *parseState) errorf(format string, args ...any) error {
	return &ParseError{
		FilePath: st.path,
		Line:     st.lineNum,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (st *parseState) raw(line string) {
	st.doc.lines = append(st.doc.lines, &docLine{text: line})
}

func (st *parseState) line(line string) error {
	if st.current != nil {
		return st.sectionLine(line)
	}

	trimmedLine := strings.TrimSpace(line)
	sol := st.doc.solution

	if matches := sectionHeaderRegex.FindStringSubmatch(line); matches != nil {
		return st.openSection(matches[1], matches[2], matches[3], matches[4])
	}

	st.raw(line)

	switch {
	case trimmedLine == "" || strings.HasPrefix(trimmedLine, "#"):
	case formatVersionRegex.MatchString(line):
		sol.FormatVersion = formatVersionRegex.FindStringSubmatch(line)[1]
	case vsVersionRegex.MatchString(line):
		sol.VisualStudioVersion = vsVersionRegex.FindStringSubmatch(line)[1]
	case minVSVersionRegex.MatchString(line):
		sol.MinimumVisualStudioVersion = minVSVersionRegex.FindStringSubmatch(line)[1]
	case projectRegex.MatchString(line):
		if st.currentProject != nil || st.currentFolder != nil {
			return st.errorf("nested Project: missing EndProject")
		}
		matches := projectRegex.FindStringSubmatch(line)
		typeGUID := "{" + strings.ToUpper(matches[1]) + "}"
		projectGUID := "{" + strings.ToUpper(matches[4]) + "}"
		if typeGUID == ProjectTypeSolutionFolder {
			st.currentFolder = &SolutionFolder{Name: matches[2], GUID: projectGUID}
		} else {
			st.currentProject = &Project{
				Name:     matches[2],
				Path:     NormalizePath(matches[3]),
				GUID:     projectGUID,
				TypeGUID: typeGUID,
			}
		}
	case trimmedLine == "EndProject":
		if st.currentProject != nil {
			sol.Projects = append(sol.Projects, *st.currentProject)
			st.currentProject = nil
		} else if st.currentFolder != nil {
			sol.SolutionFolders = append(sol.SolutionFolders, *st.currentFolder)
			st.currentFolder = nil
		}
	case trimmedLine == "Global":
		st.inGlobal = true
	case trimmedLine == "EndGlobal":
		st.inGlobal = false
	}
	return nil
}

func (st *parseState) openSection(indent, kind, name, typ string) error {
	section, err := NewSection(name, typ)
	if err != nil {
		return st.errorf("invalid section header: %v", err)
	}

	dl := &docLine{section: section, indent: indent, global: kind == "GlobalSection"}
	switch {
	case dl.global && st.inGlobal:
		st.doc.solution.GlobalSections = append(st.doc.solution.GlobalSections, section)
		observability.SectionsParsedTotal.WithLabelValues("global").Inc()
	case !dl.global && st.currentProject != nil:
		st.currentProject.Sections = append(st.currentProject.Sections, section)
		observability.SectionsParsedTotal.WithLabelValues("project").Inc()
	case !dl.global && st.currentFolder != nil:
		st.currentFolder.Sections = append(st.currentFolder.Sections, section)
		observability.SectionsParsedTotal.WithLabelValues("project").Inc()
	default:
		return st.errorf("%s(%s) outside of its enclosing block", kind, name)
	}

	st.doc.lines = append(st.doc.lines, dl)
	st.current = dl
	return nil
}

func (st *parseState) sectionLine(line string) error {
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == st.current.endMarker() {
		st.current = nil
		return nil
	}
	if trimmedLine == "" {
		st.keep(line)
		return nil
	}

	key, value, ok := strings.Cut(trimmedLine, "=")
	if !ok {
		st.logger.Warn("Keeping line {Line} in section {SectionName} as is: expected key = value",
			st.lineNum, st.current.section.Name())
		st.keep(line)
		return nil
	}
	if err := st.current.section.Add(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
		st.logger.Warn("Keeping line {Line} in section {SectionName} as is: {Error}",
			st.lineNum, st.current.section.Name(), err)
		st.keep(line)
	}
	return nil
}

// keep records a section line that is not an entry so it is written back.
func (st *parseState) keep(line string) {
	st.current.kept = append(st.current.kept, keptLine{after: st.current.section.Len(), text: line})
}

func (st *parseState) finish() error {
	switch {
	case st.current != nil:
		return st.errorf("unexpected end of file: missing %s", st.current.endMarker())
	case st.currentProject != nil || st.currentFolder != nil:
		return st.errorf("unexpected end of file: missing EndProject")
	}

	sol := st.doc.solution
	if nested, ok := sol.GlobalSection(SectionNestedProjects); ok {
		for child, parent := range nested.All() {
			childGUID, parentGUID := normalizeGUID(child), normalizeGUID(parent)
			for i := range sol.Projects {
				if sol.Projects[i].GUID == childGUID {
					sol.Projects[i].ParentFolderGUID = parentGUID
				}
			}
			for i := range sol.SolutionFolders {
				if sol.SolutionFolders[i].GUID == childGUID {
					sol.SolutionFolders[i].ParentFolderGUID = parentGUID
				}
			}
		}
	}

	if configs, ok := sol.GlobalSection(SectionSolutionConfigurationPlatforms); ok {
		for key := range configs.Keys() {
			sol.SetActiveConfiguration(ParseConfigurationAndPlatform(key))
			break
		}
	}

	return nil
}
