package main

import "lv-inventory/cmd"

func main() {
	cmd.Execute()
}
