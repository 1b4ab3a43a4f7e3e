// Package main is the entry point for the constscan CLI.
package main

import "constscan.dev/pkg/constscan/cmd"

func main() {
	cmd.Execute()
}
