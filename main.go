package main

import "github.com/Alturino/raffa/cmd"

func main() {
	cmd.Start()
}
