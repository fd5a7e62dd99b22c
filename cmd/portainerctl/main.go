package main

import "github.com/tansive/portainer-mcp/internal/cli"

func main() {
	cli.Execute()
}
