package main

import "github.com/KaramelBytes/bbanalyze/cmd"

func main() {
	cmd.Execute()
}
