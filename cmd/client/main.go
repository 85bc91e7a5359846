package main

import (
	"alfup/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
