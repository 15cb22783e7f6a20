package main

import "emberday/cmd/ember/root"

func main() {
	root.Execute()
}
