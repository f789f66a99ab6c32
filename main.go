package main

import "github.com/meinhoongagan/medcare/cmd"

func main() {
	cmd.Execute()
}
