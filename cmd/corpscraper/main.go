package main

import "corpscraper/cmd/corpscraper/cmd"

func main() {
	cmd.Execute()
}
