package main

import "github.com/chriserin/specdown/cmd"

func main() {
	cmd.Execute()
}
