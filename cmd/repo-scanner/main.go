package main

import (
	"github.com/petrarca/repo-scanner/internal/cmd"
)

func main() {
	cmd.Execute()
}
