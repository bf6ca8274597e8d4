// Package project describes how a project is created or loaded: the
// parameter objects handed to a language binding for a single create or
// load operation.
package project

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/willibrandon/gosln/frameworks"
	"github.com/willibrandon/gosln/solution"
)

// Solution is the owning solution of a project being created or loaded.
// *solution.Solution implements it.
type Solution interface {
	// ActiveConfiguration returns the selected solution configuration.
	// Either half may be empty when no configuration is selected.
	ActiveConfiguration() solution.ConfigurationAndPlatform
}

// DefaultProjectConfiguration is used when the solution has no fully
// specified active configuration.
var DefaultProjectConfiguration = solution.NewConfigurationAndPlatform("Debug", "AnyCPU")

// Information is the data shared by CreateInformation and LoadInformation.
type Information struct {
	solution Solution
	fileName string

	// ProjectName defaults to the file name without directory and extension
	ProjectName string

	// ConfigurationMapping translates solution configurations for this project
	ConfigurationMapping *solution.ConfigurationMapping

	// ActiveProjectConfiguration is the project configuration to use initially
	ActiveProjectConfiguration solution.ConfigurationAndPlatform

	// ProjectSections are the ProjectSection blocks of the project entry
	ProjectSections []*solution.Section

	// IdGUID identifies the project within the solution
	IdGUID uuid.UUID

	// TypeGUID identifies the project type (C#, VB.NET, ...)
	TypeGUID uuid.UUID
}

// NewInformation creates the parameters for a project at fileName in sol.
func NewInformation(sol Solution, fileName string) (*Information, error) {
	info := &Information{}
	if err := info.init(sol, fileName); err != nil {
		return nil, err
	}
	return info, nil
}

func (info *Information) init(sol Solution, fileName string) error {
	if isNil(sol) {
		return solution.NewArgumentError("solution", "must not be nil")
	}
	if fileName == "" {
		return solution.NewArgumentError("fileName", "must not be empty")
	}

	info.solution = sol
	info.fileName = fileName
	info.ProjectName = solution.ProjectNameFromFile(fileName)
	info.ProjectSections = []*solution.Section{}
	info.ConfigurationMapping = solution.NewConfigurationMapping()
	info.ActiveProjectConfiguration = info.projectConfigurationFor(sol.ActiveConfiguration())
	return nil
}

// projectConfigurationFor maps a solution configuration through the
// mapping, falling back to DefaultProjectConfiguration when it is incomplete.
func (info *Information) projectConfigurationFor(solutionConfig solution.ConfigurationAndPlatform) solution.ConfigurationAndPlatform {
	if solutionConfig.IsFullySpecified() {
		return info.ConfigurationMapping.GetProjectConfiguration(solutionConfig)
	}
	return DefaultProjectConfiguration
}

// Solution returns the owning solution.
func (info *Information) Solution() Solution {
	return info.solution
}

// FileName returns the project file path.
func (info *Information) FileName() string {
	return info.fileName
}

// LoadInformation is the parameter object for loading an existing project.
type LoadInformation struct {
	Information

	// UpgradeToolsVersion is nil when the user has not been asked whether to
	// upgrade the project's tools version
	UpgradeToolsVersion *bool

	progressMonitor ProgressMonitor
}

// NewLoadInformation creates load parameters. projectName is required and
// replaces the name derived from fileName.
func NewLoadInformation(sol Solution, fileName, projectName string) (*LoadInformation, error) {
	info := &LoadInformation{progressMonitor: NullProgressMonitor()}
	if err := info.init(sol, fileName); err != nil {
		return nil, err
	}
	if projectName == "" {
		return nil, solution.NewArgumentError("projectName", "must not be empty")
	}
	info.ProjectName = projectName
	return info, nil
}

// ProgressMonitor returns the monitor the load reports through. It is never nil.
func (info *LoadInformation) ProgressMonitor() ProgressMonitor {
	return info.progressMonitor
}

// SetProgressMonitor replaces the progress monitor. A nil monitor is
// rejected and the current one is kept.
func (info *LoadInformation) SetProgressMonitor(m ProgressMonitor) error {
	if isNil(m) {
		return solution.NewArgumentError("progressMonitor", "must not be nil")
	}
	info.progressMonitor = m
	return nil
}

// CreateInformation holds what a language binding needs to create a new project.
type CreateInformation struct {
	Information

	// RootNamespace is the default namespace of the new project
	RootNamespace string

	// TargetFramework is the framework the project targets, if chosen
	TargetFramework *frameworks.TargetFramework

	// InitializeTypeSystem requests type system initialization after creation
	InitializeTypeSystem bool
}

// NewCreateInformation creates parameters for a project written to
// outputFileName. A fresh IdGUID is generated.
func NewCreateInformation(sol Solution, outputFileName string) (*CreateInformation, error) {
	info := &CreateInformation{}
	if err := info.init(sol, outputFileName); err != nil {
		return nil, err
	}
	info.IdGUID = uuid.New()
	info.RootNamespace = ""
	return info, nil
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
