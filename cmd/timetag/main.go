package main

import "github.com/forPelevin/timetag/internal/cli"

func main() {
	cli.Main()
}
