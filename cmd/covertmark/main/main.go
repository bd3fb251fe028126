package main

import (
	"fmt"
	"os"

	"github.com/covertmark/covertmark/cmd/covertmark"
	"github.com/covertmark/covertmark/pkg/style"
)

func main() {
	rootCmd := covertmark.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !covertmark.IsReported(err) {
			fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
