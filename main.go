package main

import (
	"log"

	"yashubustudio/profitprophet/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("profitprophet: %v", err)
	}
}
