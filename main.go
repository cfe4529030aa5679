package main

import "github.com/julienpequegnot/newsforge/cmd"

func main() {
	cmd.Execute()
}
