package main

import "github.com/tranvictor/assoc/cmd"

func main() {
	cmd.Execute()
}
