package main

import "github.com/sjzsdu/dirtree/cmd"

func main() {
	cmd.Execute()
}
