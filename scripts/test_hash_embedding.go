//go:build ignore

package main

import (
	"fmt"
	"log"

	"clinical-intel-be/pkg/embedding"
)

func main() {
	provider := embedding.NewHashProvider()

	text := "Patient presents with shortness of breath and elevated blood pressure."
	fmt.Printf("Generating embedding for: \"%s\"\n", text)

	resp, err := provider.Generate(text, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}

	dims := len(resp.Embedding.Values)
	fmt.Printf("Success! Generated Embedding Dimensions: %d\n", dims)
	if dims > 5 {
		fmt.Printf("First 5 values: %v...\n", resp.Embedding.Values[:5])
	}

	// Same text must always map to the same vector
	again, err := provider.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}
	for i := range resp.Embedding.Values {
		if resp.Embedding.Values[i] != again.Embedding.Values[i] {
			log.Fatalf("Mismatch at dimension %d: %f vs %f", i, resp.Embedding.Values[i], again.Embedding.Values[i])
		}
	}
	fmt.Println("Determinism check passed: identical text produced identical vectors.")
}
