package main

import "sales_management/cmd"

func main() {
	cmd.Execute()
}
