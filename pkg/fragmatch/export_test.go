package fragmatch

import "github.com/spf13/cobra"

// RootWithBadBinding ties a setting to a flag that does not exist.
func RootWithBadBinding() *cobra.Command {
	a := newApp()
	root := a.rootCmd()
	a.keep(a.v.BindPFlag("cv.window", root.PersistentFlags().Lookup("no-such-flag")))
	return root
}
