package main

import (
	"context"

	"github.com/rob-berry-depop/jj-stack/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
