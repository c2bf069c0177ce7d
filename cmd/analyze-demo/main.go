// Command analyze-demo is a manual test harness for the tonal analysis
// engine, mirroring cmd/test-arranger's "run a few fixed inputs, print
// results" shape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Conceptual-Machines/tonal-analysis-go/config"
	"github.com/Conceptual-Machines/tonal-analysis-go/tonalengine"
)

type testCase struct {
	chords    []string
	parentKey string
}

func main() {
	engine := tonalengine.New(config.Default())

	testCases := []testCase{
		{chords: []string{"C", "G", "Am", "F"}},
		{chords: []string{"Dm", "G", "C"}},
		{chords: []string{"G", "F", "C", "G"}, parentKey: "C major"},
		{chords: []string{"C", "A7", "Dm", "G7", "C"}, parentKey: "C major"},
	}

	ctx := context.Background()

	for i, tc := range testCases {
		fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		fmt.Printf("Test %d/%d: %v (parent_key=%q)\n", i+1, len(testCases), tc.chords, tc.parentKey)
		fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

		start := time.Now()
		result, err := engine.AnalyzeChordProgression(ctx, tc.chords, tonalengine.Options{ParentKey: tc.parentKey})
		if err != nil {
			log.Printf("❌ Error: %v", err)
			continue
		}
		duration := time.Since(start)

		fmt.Printf("✅ Success! Duration: %v\n\n", duration)
		fmt.Printf("Primary: %s (confidence %.2f)\n", result.Primary.Summary, result.Primary.Confidence)

		for j, alt := range result.Alternatives {
			fmt.Printf("  Alternative %d: %s (confidence %.2f)\n", j+1, alt.Summary, alt.Confidence)
		}

		metaJSON, _ := json.MarshalIndent(result.Metadata, "", "  ")
		fmt.Printf("\nMetadata:\n  %s\n", string(metaJSON))
	}

	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("✅ All tests completed!\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
