package datacli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <text...>",
		Short: "Write a sentence slot",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[0], err)
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("sentence text is empty")
			}
			store, err := g.open()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := g.display(store).SetSentence(cmd.Context(), i, text); err != nil {
				return fmt.Errorf("set: %w", err)
			}
			okColor.Fprintf(cmd.OutOrStdout(), "set %d: %s\n", i, text)
			return nil
		},
	}
}

func newSelectCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "select <index>",
		Short: "Choose which sentence the sign shows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[0], err)
			}
			store, err := g.open()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := g.display(store).Select(cmd.Context(), i); err != nil {
				return fmt.Errorf("select: %w", err)
			}
			okColor.Fprintf(cmd.OutOrStdout(), "selected %d\n", i)
			return nil
		},
	}
}

func newClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all sentences and the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.open()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := g.display(store).Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear: %w", err)
			}
			okColor.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
}

func newListCmd(g *globals) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the sentence table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.open()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()
			out := cmd.OutOrStdout()

			if raw {
				nodes, err := store.List(cmd.Context(), "")
				if err != nil {
					return err
				}
				for _, n := range nodes {
					fmt.Fprintf(out, "%s = %s ", n.Path, n.Value)
					faintColor.Fprintf(out, "(%s)\n", n.Rev)
				}
				return nil
			}

			d := g.display(store)
			sentences, err := d.Sentences(cmd.Context())
			if err != nil {
				return err
			}
			sel, hasSel, err := d.Selected(cmd.Context())
			if err != nil {
				return err
			}
			if len(sentences) == 0 {
				faintColor.Fprintln(out, "no sentences")
				return nil
			}
			for i, s := range sentences {
				mark := " "
				if hasSel && i == sel {
					mark = markColor.Sprint("*")
				}
				fmt.Fprintf(out, "%s %d  %s\n", mark, i, s)
			}
			if hasSel && sel >= len(sentences) {
				faintColor.Fprintf(out, "selected index %d is past the last sentence\n", sel)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Dump every node with its revision")
	return cmd
}
