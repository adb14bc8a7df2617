package main

import "github.com/kamal-hamza/ivc/cmd"

func main() {
	cmd.Execute()
}
