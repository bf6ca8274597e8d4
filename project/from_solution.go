package project

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/willibrandon/gosln/solution"
)

// FromSolution builds the load parameters for project entry p of sol: the
// resolved file path, entry GUIDs and sections, and the configuration
// mapping from GlobalSection(ProjectConfigurationPlatforms).
func FromSolution(sol *solution.Solution, p solution.Project) (*LoadInformation, error) {
	if sol == nil {
		return nil, solution.NewArgumentError("solution", "must not be nil")
	}

	info, err := NewLoadInformation(sol, p.GetAbsolutePath(sol.SolutionDir), p.Name)
	if err != nil {
		return nil, err
	}

	if info.IdGUID, err = parseGUID("GUID", p.GUID); err != nil {
		return nil, err
	}
	if info.TypeGUID, err = parseGUID("TypeGUID", p.TypeGUID); err != nil {
		return nil, err
	}

	info.ProjectSections = append(info.ProjectSections, p.Sections...)

	if s, ok := sol.GlobalSection(solution.SectionProjectConfigurationPlatforms); ok {
		info.ConfigurationMapping.LoadFrom(p.GUID, s)
		info.ActiveProjectConfiguration = info.projectConfigurationFor(sol.ActiveConfiguration())
	}

	return info, nil
}

func parseGUID(param, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, solution.NewArgumentError(param, fmt.Sprintf("invalid GUID %q", s))
	}
	return id, nil
}
