package main

import "github.com/notehq/notehub/internal/client/cli"

func main() {
	cli.Execute()
}
