package main

import (
	"github.com/genomelift/genomelift/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
