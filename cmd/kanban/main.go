// Command kanban runs the case-intake board CLI.
package main

import "github.com/mesh-intelligence/casekanban/internal/cli"

func main() {
	cli.Execute()
}
