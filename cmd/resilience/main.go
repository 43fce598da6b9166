package main

import "github.com/suzukaplayer/resilience/internal/cli"

func main() {
	cli.Execute()
}
