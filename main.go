package main

import "github.com/ValentinKolb/dSeq/cmd"

func main() {
	cmd.Execute()
}
