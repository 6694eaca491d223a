// Command oncall renders the on-call timeline for a rotation definition over
// a query window and prints it as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/example/oncall-roster/internal/definition"
	"github.com/example/oncall-roster/internal/rota"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type segmentOutput struct {
	User    string `json:"user"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("oncall", flag.ContinueOnError)
	flags.SetOutput(stderr)

	schedulePath := flags.String("schedule", "", "path to the rotation definition file (JSON or YAML)")
	overridesPath := flags.String("overrides", "", "path to the overrides file (JSON or YAML, optional)")
	fromArg := flags.String("from", "", "window start (RFC 3339, inclusive)")
	untilArg := flags.String("until", "", "window end (RFC 3339, exclusive)")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *schedulePath == "" {
		return fail(stderr, fmt.Errorf("--schedule is required"))
	}
	if *fromArg == "" || *untilArg == "" {
		return fail(stderr, fmt.Errorf("--from and --until are required"))
	}

	from, err := definition.ParseTime(*fromArg)
	if err != nil {
		return fail(stderr, err)
	}
	until, err := definition.ParseTime(*untilArg)
	if err != nil {
		return fail(stderr, err)
	}
	if !from.Before(until) {
		return fail(stderr, fmt.Errorf("'from' time must be before 'until' time"))
	}

	rotation, err := definition.LoadRotation(*schedulePath)
	if err != nil {
		return fail(stderr, err)
	}

	var overrides []rota.Override
	if *overridesPath != "" {
		overrides, err = definition.LoadOverrides(*overridesPath)
		if err != nil {
			return fail(stderr, err)
		}
	}

	segments, err := rota.Render(rotation, overrides, from, until)
	if err != nil {
		return fail(stderr, err)
	}

	output := make([]segmentOutput, 0, len(segments))
	for _, seg := range segments {
		output = append(output, segmentOutput{
			User:    seg.User,
			StartAt: seg.Start.UTC().Format(time.RFC3339),
			EndAt:   seg.End.UTC().Format(time.RFC3339),
		})
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintln(stdout, string(encoded))
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
