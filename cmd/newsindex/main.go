package main

import (
	"os"

	"horse.fit/newsindex/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
