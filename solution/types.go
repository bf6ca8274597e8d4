// Package solution provides the in-memory model of .NET solution (.sln) files:
// ordered key/value sections, configuration mappings, and a reader/writer
// that round-trips everything it does not model.
package solution

import (
	"path/filepath"
	"strings"
)

// Solution represents a parsed solution file
type Solution struct {
	// FilePath is the absolute path to the solution file
	FilePath string

	// FormatVersion is the solution file format version (e.g., "12.00" for VS 2013+)
	FormatVersion string

	// VisualStudioVersion is the Visual Studio version that created the file
	VisualStudioVersion string

	// MinimumVisualStudioVersion is the minimum VS version required
	MinimumVisualStudioVersion string

	// Projects contains all projects in the solution (excludes solution folders)
	Projects []Project

	// SolutionFolders contains virtual folders for organizing projects
	SolutionFolders []SolutionFolder

	// SolutionDir is the directory containing the solution file
	SolutionDir string

	// GlobalSections holds the GlobalSection blocks in file order
	GlobalSections []*Section

	activeConfig ConfigurationAndPlatform
}

// Project represents a project reference in a solution
type Project struct {
	// Name is the display name of the project
	Name string

	// Path is the file system path to the project file (relative or absolute)
	Path string

	// GUID is the unique identifier for this project instance
	GUID string

	// TypeGUID identifies the project type (C#, VB.NET, F#, etc.)
	TypeGUID string

	// ParentFolderGUID is the GUID of the containing solution folder (if any)
	ParentFolderGUID string

	// Sections holds the ProjectSection blocks of this project in file order
	Sections []*Section
}

// SolutionFolder represents a virtual folder in the solution
type SolutionFolder struct {
	// Name is the display name of the folder
	Name string

	// GUID is the unique identifier for this folder
	GUID string

	// ParentFolderGUID is the GUID of the parent folder (for nested folders)
	ParentFolderGUID string

	// Sections holds the ProjectSection blocks of this folder, including SolutionItems
	Sections []*Section
}

// Items returns the file references of the folder's SolutionItems section.
func (f *SolutionFolder) Items() []string {
	for _, s := range f.Sections {
		if s.Name() == SectionSolutionItems {
			items := make([]string, 0, s.Len())
			for key := range s.Keys() {
				items = append(items, key)
			}
			return items
		}
	}
	return nil
}

// ProjectType GUIDs for common project types
const (
	// ProjectTypeCSProject identifies a C# project (classic)
	ProjectTypeCSProject = "{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}"

	// ProjectTypeCSProjectSDK identifies a SDK-style C# project (.NET Core/.NET 5+)
	ProjectTypeCSProjectSDK = "{9A19103F-16F7-4668-BE54-9A1E7A4F7556}"

	// ProjectTypeVBProject identifies a VB.NET project
	ProjectTypeVBProject = "{F184B08F-C81C-45F6-A57F-5ABD9991F28F}"

	// ProjectTypeFSProject identifies an F# project
	ProjectTypeFSProject = "{F2A71F9B-5D33-465A-A702-920D77279786}"

	// ProjectTypeSolutionFolder identifies a solution folder
	ProjectTypeSolutionFolder = "{2150E333-8FDC-42A3-9474-1A3956D46DE8}"
)

// Well-known section names
const (
	SectionSolutionConfigurationPlatforms = "SolutionConfigurationPlatforms"
	SectionProjectConfigurationPlatforms  = "ProjectConfigurationPlatforms"
	SectionSolutionProperties             = "SolutionProperties"
	SectionNestedProjects                 = "NestedProjects"
	SectionSolutionItems                  = "SolutionItems"
	SectionProjectDependencies            = "ProjectDependencies"
)

// ActiveConfiguration returns the solution configuration currently selected.
// For parsed files this is the first SolutionConfigurationPlatforms entry; it
// is empty when the file declares none.
func (s *Solution) ActiveConfiguration() ConfigurationAndPlatform {
	return s.activeConfig
}

// SetActiveConfiguration selects the active solution configuration.
func (s *Solution) SetActiveConfiguration(c ConfigurationAndPlatform) {
	s.activeConfig = c
}

// GlobalSection returns the first global section with the given name.
func (s *Solution) GlobalSection(name string) (*Section, bool) {
	for _, sec := range s.GlobalSections {
		if sec.Name() == name {
			return sec, true
		}
	}
	return nil, false
}

// IsNETProject returns true if this is a .NET project type
func (p *Project) IsNETProject() bool {
	upperGUID := strings.ToUpper(p.TypeGUID)
	return upperGUID == ProjectTypeCSProject ||
		upperGUID == ProjectTypeCSProjectSDK ||
		upperGUID == ProjectTypeVBProject ||
		upperGUID == ProjectTypeFSProject
}

// GetAbsolutePath returns the absolute path to the project file
func (p *Project) GetAbsolutePath(solutionDir string) string {
	return ResolveProjectPath(solutionDir, p.Path)
}

// Section returns the first project section with the given name.
func (p *Project) Section(name string) (*Section, bool) {
	for _, sec := range p.Sections {
		if sec.Name() == name {
			return sec, true
		}
	}
	return nil, false
}

// GetProjectByName finds a project by its name
func (s *Solution) GetProjectByName(name string) (*Project, bool) {
	for i := range s.Projects {
		if strings.EqualFold(s.Projects[i].Name, name) {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

// GetProjectByGUID finds a project by its GUID (case-insensitive, braces optional)
func (s *Solution) GetProjectByGUID(guid string) (*Project, bool) {
	want := normalizeGUID(guid)
	for i := range s.Projects {
		if s.Projects[i].GUID == want {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

// GetProjectByPath finds a project by its path
func (s *Solution) GetProjectByPath(path string) (*Project, bool) {
	searchPath := ResolveProjectPath(s.SolutionDir, path)
	for i := range s.Projects {
		if s.Projects[i].GetAbsolutePath(s.SolutionDir) == searchPath {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

func normalizeGUID(guid string) string {
	guid = strings.ToUpper(strings.Trim(strings.TrimSpace(guid), "{}"))
	return "{" + guid + "}"
}

// ProjectNameFromFile derives a project name from its file path: the base
// name without extension ("src\App\App.csproj" -> "App"). Backslash
// separators are accepted on every OS.
func ProjectNameFromFile(path string) string {
	base := filepath.Base(ConvertToSystemPath(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
