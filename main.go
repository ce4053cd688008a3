package main

import (
	"fmt"
	"os"

	"github.com/luminatesec/luminate-client/pkg/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd("luminate_client", "Luminate provisioning client")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(rootCmd.ExitCode())
}
