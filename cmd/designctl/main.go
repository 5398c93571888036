package main

import (
	"fmt"
	"os"

	"design-campaign-backend/internal/designctl"
)

func main() {
	if err := designctl.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
