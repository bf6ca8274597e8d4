package commands

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/gosln/cmd/gosln/output"
)

// NewSectionCommand creates the parent "section" command with subcommands
func NewSectionCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Inspect and edit solution sections",
		Long: `Inspect and edit the GlobalSection and ProjectSection blocks of a solution.

Keys within a section may repeat. "set" replaces the first entry with the key
or appends one; "set --add" always appends. "remove" with a key removes every
entry with that key.`,
		Example: `  # List all sections
  gosln section list App.sln

  # Show the configurations of a solution
  gosln section get App.sln SolutionConfigurationPlatforms

  # Add a solution configuration
  gosln section set App.sln SolutionConfigurationPlatforms "Release|x64" "Release|x64"

  # Edit a project's dependencies
  gosln section set App.sln ProjectDependencies {GUID} {GUID} --project App

  # Remove a whole global section
  gosln section remove App.sln ExtensibilityGlobals`,
		// Parent commands have no Run function - they are containers only
	}

	cmd.AddCommand(newSectionListCommand(console))
	cmd.AddCommand(newSectionGetCommand(console))
	cmd.AddCommand(newSectionSetCommand(console))
	cmd.AddCommand(newSectionRemoveCommand(console))
	cmd.AddCommand(newSectionClearCommand(console))

	return cmd
}
