// Command hygienesim runs the restaurant hygiene inspection model.
package main

import "github.com/sarchlab/hygienesim/hygienesim/cmd"

func main() {
	cmd.Execute()
}
