package main

import "github.com/sequenceio/naf/cmd/naf/cmd"

func main() {
	cmd.Execute()
}
