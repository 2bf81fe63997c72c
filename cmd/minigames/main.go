package main

import "minigames/internal/cli"

func main() {
	cli.Execute()
}
