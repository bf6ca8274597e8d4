package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/willibrandon/gosln/cmd/gosln/cli"
	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/frameworks"
	"github.com/willibrandon/gosln/project"
	"github.com/willibrandon/gosln/solution"
)

// NewProjectCommand creates the parent "project" command with subcommands
func NewProjectCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show how projects of a solution are loaded or created",
		Example: `  # Show the load parameters of a project
  gosln project info App.sln App

  # Show them for another solution configuration
  gosln project info App.sln App --configuration "Release|Any CPU"

  # Prepare the parameters for a new project
  gosln project new App.sln src/Tool/Tool.csproj --framework net8.0`,
	}

	cmd.AddCommand(newProjectInfoCommand(console))
	cmd.AddCommand(newProjectNewCommand(console))

	return cmd
}

type projectInfoOptions struct {
	configuration string
	format        string
}

func newProjectInfoCommand(console *output.Console) *cobra.Command {
	opts := &projectInfoOptions{}

	cmd := &cobra.Command{
		Use:   "info <solution> <project>",
		Short: "Show the load parameters of a project",
		Long: `Show the parameters a language binding receives when the project is loaded:
file, GUIDs, project sections and the mapping of every solution configuration
to a project configuration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectInfo(cmd.Context(), console, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configuration, "configuration", "", `Solution configuration to select, as "Configuration|Platform"`)
	cmd.Flags().StringVar(&opts.format, "format", formatConsole, "Output format: console or json")

	return cmd
}

func runProjectInfo(ctx context.Context, console *output.Console, path, name string, opts *projectInfoOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	start := time.Now()
	doc, err := openSolution(ctx, path)
	if err != nil {
		return err
	}
	sol := doc.Solution()

	if opts.configuration != "" {
		selected := solution.ParseConfigurationAndPlatform(opts.configuration)
		if !selected.IsFullySpecified() {
			return fmt.Errorf("invalid configuration %q: expected Configuration|Platform", opts.configuration)
		}
		sol.SetActiveConfiguration(selected)
	}

	p, ok := sol.GetProjectByName(name)
	if !ok {
		if p, ok = sol.GetProjectByGUID(name); !ok {
			return fmt.Errorf("project %q not found in %s", name, path)
		}
	}

	info, err := project.FromSolution(sol, *p)
	if err != nil {
		return err
	}

	monitor := project.NewLoggingProgressMonitor(ctx, cli.Logger().ForContext("Project", info.ProjectName))
	if err := info.SetProgressMonitor(monitor); err != nil {
		return err
	}

	configs := solutionConfigurations(sol)
	monitor.SetTaskName("Mapping configurations")
	rows := make([]output.ConfigurationMapping, 0, len(configs))
	for i, c := range configs {
		if err := monitor.Context().Err(); err != nil {
			return err
		}
		rows = append(rows, output.ConfigurationMapping{
			Solution: c.String(),
			Project:  info.ConfigurationMapping.GetProjectConfiguration(c).String(),
			Build:    info.ConfigurationMapping.IsBuild(c),
			Deploy:   info.ConfigurationMapping.IsDeploy(c),
		})
		monitor.Report(float64(i+1) / float64(len(configs)))
	}

	result := &output.ProjectInfoOutput{
		SchemaVersion:       output.CurrentSchemaVersion,
		Name:                info.ProjectName,
		FileName:            info.FileName(),
		GUID:                formatGUID(info.IdGUID),
		TypeGUID:            formatGUID(info.TypeGUID),
		ActiveConfiguration: info.ActiveProjectConfiguration.String(),
		Configurations:      rows,
	}
	for _, s := range info.ProjectSections {
		result.Sections = append(result.Sections, sectionInfo(info.ProjectName, s))
	}
	result.ElapsedMs = output.MeasureElapsed(start)

	if opts.format == formatJSON {
		return console.WriteJSON(result)
	}
	printProjectInfo(console, result)
	return nil
}

// solutionConfigurations returns the configurations declared in
// GlobalSection(SolutionConfigurationPlatforms), in file order.
func solutionConfigurations(sol *solution.Solution) []solution.ConfigurationAndPlatform {
	s, ok := sol.GlobalSection(solution.SectionSolutionConfigurationPlatforms)
	if !ok {
		return nil
	}
	var configs []solution.ConfigurationAndPlatform
	for key := range s.Keys() {
		if c := solution.ParseConfigurationAndPlatform(key); c.IsFullySpecified() {
			configs = append(configs, c)
		}
	}
	return configs
}

func formatGUID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return "{" + strings.ToUpper(id.String()) + "}"
}

func printProjectInfo(console *output.Console, r *output.ProjectInfoOutput) {
	console.Header("Project %s", r.Name)
	console.Entry(1, "File", r.FileName)
	if r.GUID != "" {
		console.Entry(1, "GUID", r.GUID)
	}
	if r.TypeGUID != "" {
		console.Entry(1, "Type", r.TypeGUID)
	}
	console.Entry(1, "Active configuration", r.ActiveConfiguration)
	if r.RootNamespace != nil {
		console.Entry(1, "Root namespace", *r.RootNamespace)
	}
	if r.TargetFramework != "" {
		console.Entry(1, "Target framework", r.TargetFramework)
	}
	if r.InitializeTypeSystem != nil {
		console.Entry(1, "Initialize type system", fmt.Sprint(*r.InitializeTypeSystem))
	}

	if len(r.Configurations) > 0 {
		console.Info("  Configurations:")
		for _, c := range r.Configurations {
			flags := ""
			if !c.Build {
				flags += " (no build)"
			}
			if c.Deploy {
				flags += " (deploy)"
			}
			console.Info("    %s -> %s%s", c.Solution, c.Project, flags)
		}
	}

	for _, s := range r.Sections {
		console.Info("  ProjectSection(%s) = %s, %s", s.Name, s.Type, entryCount(len(s.Entries)))
		for _, e := range s.Entries {
			console.Detail("      %s = %s", e.Key, e.Value)
		}
	}
}

type projectNewOptions struct {
	framework            string
	rootNamespace        string
	initializeTypeSystem bool
	format               string
}

func newProjectNewCommand(console *output.Console) *cobra.Command {
	opts := &projectNewOptions{}

	cmd := &cobra.Command{
		Use:   "new <solution> <project-file>",
		Short: "Prepare the creation parameters for a new project",
		Long: `Prepare the parameters a language binding receives when creating a new
project in the solution: a fresh project GUID, the project name derived from
the file name, and the project configuration selected by the solution's
active configuration. The solution file is not modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectNew(cmd.Context(), console, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.framework, "framework", "", "Target framework moniker (e.g. net8.0, netstandard2.0, net48)")
	cmd.Flags().StringVar(&opts.rootNamespace, "root-namespace", "", "Default namespace of the new project")
	cmd.Flags().BoolVar(&opts.initializeTypeSystem, "init-type-system", false, "Initialize the type system after creation")
	cmd.Flags().StringVar(&opts.format, "format", formatConsole, "Output format: console or json")

	return cmd
}

func runProjectNew(ctx context.Context, console *output.Console, path, projectFile string, opts *projectNewOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	start := time.Now()
	doc, err := openSolution(ctx, path)
	if err != nil {
		return err
	}
	sol := doc.Solution()

	fileName := solution.ResolveProjectPath(sol.SolutionDir, projectFile)
	if _, exists := sol.GetProjectByPath(fileName); exists {
		return fmt.Errorf("project %s is already part of %s", projectFile, path)
	}

	info, err := project.NewCreateInformation(sol, fileName)
	if err != nil {
		return err
	}
	info.RootNamespace = opts.rootNamespace
	info.InitializeTypeSystem = opts.initializeTypeSystem
	if opts.framework != "" {
		if info.TargetFramework, err = frameworks.Parse(opts.framework); err != nil {
			return fmt.Errorf("invalid framework: %w", err)
		}
	}
	cli.Logger().Info("Prepared project {ProjectName} with GUID {ProjectGuid}", info.ProjectName, info.IdGUID.String())

	result := &output.ProjectInfoOutput{
		SchemaVersion:        output.CurrentSchemaVersion,
		Name:                 info.ProjectName,
		FileName:             relativeTo(sol.SolutionDir, info.FileName()),
		GUID:                 formatGUID(info.IdGUID),
		ActiveConfiguration:  info.ActiveProjectConfiguration.String(),
		RootNamespace:        &info.RootNamespace,
		InitializeTypeSystem: &info.InitializeTypeSystem,
	}
	if info.TargetFramework != nil {
		result.TargetFramework = info.TargetFramework.ShortName()
	}
	result.ElapsedMs = output.MeasureElapsed(start)

	if opts.format == formatJSON {
		return console.WriteJSON(result)
	}
	printProjectInfo(console, result)
	return nil
}

func relativeTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
