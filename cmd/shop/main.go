package main

import "CartStore/internal/cli"

func main() {
	cli.Execute()
}
