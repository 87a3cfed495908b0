package main

import "ticketsync/cmd"

func main() {
	cmd.Execute()
}
