package main

import "github.com/Harmony-Global/harmony-admin/cmd"

func main() {
	cmd.Execute()
}
