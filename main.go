package main

import "view-sync/cmd"

func main() {
	cmd.Execute()
}
