package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/featureschema/fschema/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
