package main

import "github.com/maastricht-university/gprf/cli"

func main() {
	cli.Execute()
}
