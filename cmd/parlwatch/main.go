package main

import "parlwatch/internal/cli"

func main() {
	cli.Execute()
}
