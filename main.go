package main

import "currency-event-impact/internal/cli"

func main() {
	cli.Execute()
}
