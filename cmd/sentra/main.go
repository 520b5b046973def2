package main

import "sentra/internal/cli"

func main() {
	cli.Execute()
}
