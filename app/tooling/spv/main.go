// This program provides offline tooling for the header chain.
package main

import "github.com/ardanlabs/spvchain/app/tooling/spv/cmd"

func main() {
	cmd.Execute()
}
