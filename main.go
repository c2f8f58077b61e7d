package main

import "github.com/dyike/QuantHedge/internal/cli"

func main() {
	cli.Run()
}
