package main

import "github.com/pfrederiksen/gopher-golf/internal/cli"

func main() {
	cli.Execute()
}
