package main

import "github.com/oksasatya/teambuilder/internal/cli"

func main() {
	cli.Execute()
}
