package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gosln/cmd/gosln/cli"
	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/solution"
)

func newSectionGetCommand(console *output.Console) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <solution> <section> [key]",
		Short: "Show the entries of a section, or the first value of a key",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openSolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s, err := findSection(doc, project, args[1])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				printSection(console, s)
				return nil
			}

			value, ok := s.Get(args[2])
			if !ok {
				return fmt.Errorf("key %q not found in section %s", args[2], s.Name())
			}
			console.Println(value)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project or solution folder (name or GUID) owning the section")

	return cmd
}

type sectionSetOptions struct {
	project     string
	add         bool
	sectionType string
}

func newSectionSetCommand(console *output.Console) *cobra.Command {
	opts := &sectionSetOptions{}

	cmd := &cobra.Command{
		Use:   "set <solution> <section> <key> <value>",
		Short: "Set or add an entry",
		Long: `Set replaces the value of the first entry with the key, or appends a new
entry when there is none. With --add a new entry is always appended, even if
the key exists.

A missing global section is created with the type given by --type.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionSet(cmd.Context(), console, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.project, "project", "", "Project or solution folder (name or GUID) owning the section")
	cmd.Flags().BoolVar(&opts.add, "add", false, "Append a new entry even if the key exists")
	cmd.Flags().StringVar(&opts.sectionType, "type", solution.SectionTypePreSolution, "Type of a newly created global section")

	return cmd
}

func runSectionSet(ctx context.Context, console *output.Console, args []string, opts *sectionSetOptions) error {
	path, name, key, value := args[0], args[1], args[2], args[3]

	doc, err := openSolution(ctx, path)
	if err != nil {
		return err
	}

	tracker := trackChanges(doc, cli.Logger())
	defer tracker.Close()

	s, err := findSection(doc, opts.project, name)
	if err != nil && opts.project != "" {
		return err
	}
	if err != nil {
		if s, err = solution.NewSection(name, opts.sectionType); err != nil {
			return err
		}
		tracker.watch(s, cli.Logger())
		doc.AddGlobalSection(s)
		console.Detail("Created global section %s (%s)", name, opts.sectionType)
	}

	if opts.add {
		err = s.Add(key, value)
	} else {
		err = s.Set(key, value)
	}
	if err != nil {
		return err
	}

	if err := doc.Save(ctx); err != nil {
		return err
	}
	console.Success("Updated section %s in %s", s.Name(), path)
	return nil
}

func newSectionRemoveCommand(console *output.Console) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "remove <solution> <section> [key]",
		Short: "Remove every entry with a key, or a whole global section",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionRemove(cmd.Context(), console, args, project)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project or solution folder (name or GUID) owning the section")

	return cmd
}

func runSectionRemove(ctx context.Context, console *output.Console, args []string, project string) error {
	path, name := args[0], args[1]

	doc, err := openSolution(ctx, path)
	if err != nil {
		return err
	}

	if len(args) == 2 {
		if project != "" {
			return fmt.Errorf("removing a whole project section is not supported; remove its keys or clear it")
		}
		if !doc.RemoveGlobalSection(name) {
			console.Warning("No global section %s in %s", name, path)
			return nil
		}
		if err := doc.Save(ctx); err != nil {
			return err
		}
		console.Success("Removed section %s from %s", name, path)
		return nil
	}

	tracker := trackChanges(doc, cli.Logger())
	defer tracker.Close()

	s, err := findSection(doc, project, name)
	if err != nil {
		return err
	}
	key := args[2]
	if !s.Remove(key) {
		console.Warning("No entries with key %q in section %s", key, name)
		return nil
	}

	if err := doc.Save(ctx); err != nil {
		return err
	}
	console.Success("Removed %q from section %s", key, name)
	return nil
}

func newSectionClearCommand(console *output.Console) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "clear <solution> <section>",
		Short: "Remove all entries of a section, keeping the section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := openSolution(ctx, args[0])
			if err != nil {
				return err
			}

			tracker := trackChanges(doc, cli.Logger())
			defer tracker.Close()

			s, err := findSection(doc, project, args[1])
			if err != nil {
				return err
			}
			s.Clear()

			if !tracker.Changed() {
				return nil
			}
			if err := doc.Save(ctx); err != nil {
				return err
			}
			console.Success("Cleared section %s in %s", s.Name(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project or solution folder (name or GUID) owning the section")

	return cmd
}
