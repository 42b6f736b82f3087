package fragmatch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/fragmatch/pkg/batch"
	"github.com/andrew-torda/fragmatch/pkg/config"
)

func (a *app) cvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cv file",
		Short: "Print the characteristic vectors of a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, res, err := a.runner().Load(args[0])
			if err != nil {
				return err
			}
			p, err := batch.Prepare(id, res, &a.cfg, false, a.lg)
			if err != nil {
				return err
			}
			return printCVs(cmd.OutOrStdout(), p)
		},
	}
}

func (a *app) annotateCmd() *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "annotate file [file...]",
		Short: "Label residues helix, strand or coil and list the fragments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ann, err := a.runner().Annotate(cmd.Context(), args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			nfail := 0
			for _, an := range ann {
				if an.Err != nil {
					nfail++
					continue
				}
				if err := printGraph(w, an.Graph, tree); err != nil {
					return err
				}
			}
			if nfail == len(ann) {
				return fmt.Errorf("no structure could be annotated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "also print the minimum spanning tree of the fragment graph")
	return cmd
}

func (a *app) matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match reference target [target...]",
		Short: "Search targets for the fragments of a reference",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.runner().Match(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
	def := config.Default().Match
	f := cmd.Flags()
	f.Float64P("similarity", "p", def.Similarity, "0 to 100, higher keeps fewer candidates")
	f.String("sequence", "", "one letter query for the reference fragments, X or - match anything")
	f.Bool("disulfide", false, "keep disulfide bridges of the reference")
	f.Bool("strict-size", false, "target must have as many residues as the reference")
	f.Bool("include-coil", false, "search for coil fragments as well")
	f.IntP("max-solutions", "n", def.MaxSolutions, "solutions per target, 0 for all of them")
	for _, name := range []string{"similarity", "sequence", "disulfide", "strict-size", "include-coil", "max-solutions"} {
		a.keep(a.v.BindPFlag("match."+name, f.Lookup(name)))
	}
	return cmd
}
