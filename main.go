package main

import "github.com/dotcommander/qmreport/cmd"

func main() {
	cmd.Execute()
}
