package main

import "github.com/hurou927/tag-communities/cmd"

func main() {
	cmd.Execute()
}
