package main

import "ongsys-sync/cmd"

func main() {
	cmd.Execute()
}
