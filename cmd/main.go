package main

import (
	"github.com/consensys/go-circom/pkg/cmd"
)

func main() {
	cmd.Execute()
}
