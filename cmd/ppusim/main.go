// Command ppusim replays stimulus files on a simulated processing unit.
package main

import "github.com/sarchlab/ppusim/cmd"

func main() {
	cmd.Execute()
}
