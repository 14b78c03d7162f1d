package main

import "insureval/cmd"

func main() {
	cmd.Execute()
}
