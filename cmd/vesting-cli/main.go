package main

import "vesting-core/cmd/vesting-cli/cmd"

func main() {
	cmd.Execute()
}
