package main

import "github.com/codetrail/aiscan/internal/cli"

func main() {
	cli.Execute()
}
