package main

import "github.com/frahmantamala/shift-tracking/cmd"

func main() {
	cmd.Execute()
}
