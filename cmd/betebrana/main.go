package main

import "github.com/Semirss/betebrana/internal/cli"

func main() {
	cli.Execute()
}
