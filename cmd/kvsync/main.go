package main

import (
	"fmt"
	"os"

	"github.com/onmitsuX/key-vault-manager/cmd/kvsync/commands"
	kverrors "github.com/onmitsuX/key-vault-manager/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := commands.NewRootCommand(commands.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", kverrors.SimplifyError(err))
		os.Exit(1)
	}
}
