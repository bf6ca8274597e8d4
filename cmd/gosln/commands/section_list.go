package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/solution"
)

type sectionListOptions struct {
	format string
}

func newSectionListCommand(console *output.Console) *cobra.Command {
	opts := &sectionListOptions{}

	cmd := &cobra.Command{
		Use:   "list <solution>",
		Short: "List all sections of a solution",
		Long: `List every GlobalSection and ProjectSection with its type and entry count.
With --verbosity detailed the entries are shown as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionList(cmd, console, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatConsole, "Output format: console or json")

	return cmd
}

func runSectionList(cmd *cobra.Command, console *output.Console, path string, opts *sectionListOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	start := time.Now()
	doc, err := openSolution(cmd.Context(), path)
	if err != nil {
		return err
	}
	sol := doc.Solution()

	var infos []output.SectionInfo
	for _, p := range sol.Projects {
		for _, s := range p.Sections {
			infos = append(infos, sectionInfo(p.Name, s))
		}
	}
	for _, f := range sol.SolutionFolders {
		for _, s := range f.Sections {
			infos = append(infos, sectionInfo(f.Name, s))
		}
	}
	for _, s := range sol.GlobalSections {
		infos = append(infos, sectionInfo("Global", s))
	}

	if opts.format == formatJSON {
		result := output.NewSectionListOutput(sol.FilePath)
		result.Sections = append(result.Sections, infos...)
		result.ElapsedMs = output.MeasureElapsed(start)
		return console.WriteJSON(result)
	}

	if len(infos) == 0 {
		console.Info("No sections in %s.", path)
		return nil
	}

	console.Header("Sections in %s:", path)
	detailed := console.GetVerbosity() >= output.VerbosityDetailed
	for _, info := range infos {
		console.Info("  %-24s %s (%s, %s)", info.Scope, info.Name, info.Type, entryCount(len(info.Entries)))
		if detailed {
			for _, e := range info.Entries {
				console.Entry(3, e.Key, e.Value)
			}
		}
	}
	console.Detail("Active configuration: %s", sol.ActiveConfiguration())

	return nil
}

func entryCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

// printSection writes the entries of s, one per line, in order.
func printSection(console *output.Console, s *solution.Section) {
	if s.Len() == 0 {
		console.Info("Section %s is empty.", s.Name())
		return
	}
	for key, value := range s.All() {
		console.Entry(0, key, value)
	}
}
