package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/willibrandon/gosln/cmd/gosln/cli"
	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/observability"
	"github.com/willibrandon/gosln/solution"
)

// formatConsole and formatJSON are the accepted --format values
const (
	formatConsole = "console"
	formatJSON    = "json"
)

func validateFormat(format string) error {
	if format != formatConsole && format != formatJSON {
		return fmt.Errorf("invalid format %q: must be %s or %s", format, formatConsole, formatJSON)
	}
	return nil
}

// openSolution parses path and selects the configured default solution
// configuration when the file selects none.
func openSolution(ctx context.Context, path string) (*solution.Document, error) {
	doc, err := solution.NewSlnParser(cli.Logger()).Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	sol := doc.Solution()
	if !sol.ActiveConfiguration().IsFullySpecified() {
		fallback := cli.Config().DefaultSolutionConfiguration()
		cli.Logger().Debug("No active configuration in {SolutionPath}, using {Configuration}", path, fallback.String())
		sol.SetActiveConfiguration(fallback)
	}
	return doc, nil
}

// projectRef identifies a project or solution folder by name or GUID.
type projectRef struct {
	Name string
	GUID string
}

// resolveProject finds a project or solution folder by name
// (case-insensitive) or GUID.
func resolveProject(sol *solution.Solution, ref string) (projectRef, error) {
	if p, ok := sol.GetProjectByName(ref); ok {
		return projectRef{Name: p.Name, GUID: p.GUID}, nil
	}
	if p, ok := sol.GetProjectByGUID(ref); ok {
		return projectRef{Name: p.Name, GUID: p.GUID}, nil
	}
	for _, f := range sol.SolutionFolders {
		if strings.EqualFold(f.Name, ref) || strings.EqualFold(strings.Trim(f.GUID, "{}"), strings.Trim(ref, "{}")) {
			return projectRef{Name: f.Name, GUID: f.GUID}, nil
		}
	}
	return projectRef{}, fmt.Errorf("project %q not found in %s", ref, sol.FilePath)
}

// findSection returns the global section name, or the project section name
// of project when it is non-empty.
func findSection(doc *solution.Document, project, name string) (*solution.Section, error) {
	if project == "" {
		if s, ok := doc.GlobalSection(name); ok {
			return s, nil
		}
		return nil, fmt.Errorf("global section %q not found", name)
	}

	ref, err := resolveProject(doc.Solution(), project)
	if err != nil {
		return nil, err
	}
	if s, ok := doc.ProjectSection(ref.GUID, name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("project section %q not found in %s", name, ref.Name)
}

// changeTracker observes every section of a document, counting effective
// mutations and recording them as metrics.
type changeTracker struct {
	changes      int
	unsubscribes []func()
}

func trackChanges(doc *solution.Document, logger observability.Logger) *changeTracker {
	t := &changeTracker{}
	for _, s := range doc.Sections() {
		t.watch(s, logger)
	}
	return t
}

func (t *changeTracker) watch(s *solution.Section, logger observability.Logger) {
	t.unsubscribes = append(t.unsubscribes, s.OnChanged(func(s *solution.Section) {
		t.changes++
		observability.RecordSectionChange(s.Type())
		logger.Debug("Section {SectionName} changed, {Count} entries", s.Name(), s.Len())
	}))
}

func (t *changeTracker) Changed() bool {
	return t.changes > 0
}

func (t *changeTracker) Close() {
	for _, unsubscribe := range t.unsubscribes {
		unsubscribe()
	}
	t.unsubscribes = nil
}

// sectionInfo converts a section for JSON output.
func sectionInfo(scope string, s *solution.Section) output.SectionInfo {
	info := output.SectionInfo{
		Scope:   scope,
		Name:    s.Name(),
		Type:    s.Type(),
		Entries: make([]output.EntryInfo, 0, s.Len()),
	}
	for key, value := range s.All() {
		info.Entries = append(info.Entries, output.EntryInfo{Key: key, Value: value})
	}
	return info
}
