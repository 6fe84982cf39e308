package main

import "github.com/supdesk/supdesk/cmd"

func main() {
	cmd.Execute()
}
