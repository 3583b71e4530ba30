package main

import "github.com/quarrylabs/datascout/cmd"

func main() {
	cmd.Execute()
}
