package main

import (
	"os"

	"github.com/MrSnakeDoc/beanstalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
