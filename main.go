package main

import "folio/cmd"

func main() {
	cmd.Execute()
}
