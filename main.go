package main

import (
	"fmt"
	"os"

	"outliner/src/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
