package main

import "github.com/kiesman99/pbrtex/cmd"

func main() {
	cmd.Execute()
}
