package main

import "github.com/tbergmann/searchmeta/cmd"

func main() {
	cmd.Execute()
}
