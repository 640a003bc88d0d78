package main

import "github.com/dt-pm-tools/ytshot/cmd"

func main() {
	cmd.Execute()
}
