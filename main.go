package main

import (
	"fmt"
	"os"

	"fjacquet/session-payments/cmd/configcmd"
	"fjacquet/session-payments/cmd/inspect"
	"fjacquet/session-payments/cmd/quarterly"
	"fjacquet/session-payments/cmd/reconcile"
	"fjacquet/session-payments/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(quarterly.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
