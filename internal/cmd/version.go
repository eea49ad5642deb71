package cmd

import "fmt"

type VersionCmd struct{}

// Run prints the build version injected through ldflags.
func (v *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.Version)
	return err
}
