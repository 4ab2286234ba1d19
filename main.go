package main

import "github.com/sprenkle/WinGuitar/cmd"

func main() {
	cmd.Execute()
}
