package main

import "linekit/cmd/linekit/cmd"

func main() {
	cmd.Execute()
}
