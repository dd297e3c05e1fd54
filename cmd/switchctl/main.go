package main

import "github.com/NordCoder/Deadswitch/cmd/switchctl/cmd"

func main() {
	cmd.Execute()
}
