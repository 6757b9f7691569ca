package main

import (
	"flag"
	"fmt"
)

type versionCmd struct{ *root }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Program() string { return v.root.subcommand("version") }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.root.stdout, "%s version %s", v.root.program, version)
	if commit != "" {
		fmt.Fprintf(v.root.stdout, " (%s", commit)
		if date != "" {
			fmt.Fprintf(v.root.stdout, ", %s", date)
		}
		fmt.Fprint(v.root.stdout, ")")
	}
	fmt.Fprintln(v.root.stdout)
	return nil
}
