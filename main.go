package main

import "quickride/cmd"

func main() {
	cmd.Execute()
}
