//go:build ignore

package main

import (
	"fmt"
	"os"

	"simcat/pkg/scenario"
)

func main() {
	data, err := scenario.GenerateJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/scenario-v1.json", append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/scenario-v1.json")
}
