package main

import (
	"github.com/abimdanu/openmusic-api/cmd"
)

func main() {
	cmd.Execute()
}
