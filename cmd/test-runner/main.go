// Package main - test-runner
// Runs the pet lifecycle scenarios against a headless engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/test"
)

func main() {
	verbose := flag.Bool("v", false, "Log scenario events to stdout")
	flag.Parse()

	fmt.Println("🐾 POCKET PET - LIFECYCLE SCENARIOS")
	fmt.Println("================================================")

	log := logger.Discard()
	if *verbose {
		log = logger.NewLogger()
	}

	results := test.NewLifecycleSuite(log).Run(context.Background())

	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   ✅ Passed: %d\n", passed)
	fmt.Printf("   ❌ Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  Simulation rules need attention")
		os.Exit(1)
	}
	fmt.Println("\n✅ All lifecycle scenarios behave as expected")
}
