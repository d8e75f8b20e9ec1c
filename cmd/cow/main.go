// cow CLI - scenario runner and contention demos for the copy-on-write vector
package main

import "github.com/alexandrkozlov/cow/pkg/cli"

func main() {
	cli.Execute()
}
