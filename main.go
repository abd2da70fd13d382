package main

import (
	"context"

	"github.com/sree-9523/RedBus/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
