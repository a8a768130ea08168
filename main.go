package main

import "github.com/cretz/sandboxd/cmd"

func main() {
	cmd.Execute()
}
