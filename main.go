package main

import "github.com/dermoumi/rmux/cmd"

func main() {
	cmd.Execute()
}
