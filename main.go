package main

import "github.com/spendpilot/spendpilot/cmd"

func main() {
	cmd.Execute()
}
