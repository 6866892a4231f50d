package main

import "github.com/bnema/lootctl/cmd"

func main() {
	cmd.Execute()
}
