package main

import "github.com/satriohadi/sewateman/cmd"

func main() {
	cmd.Execute()
}
