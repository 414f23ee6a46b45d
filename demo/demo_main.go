package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kernelforge/kernelrun"
)

func main() {
	kernelName := flag.String("kernel", "collatz", "Kernel to run: collatz, pairsum or raynorm")
	n := flag.Int("n", 128, "Number of input elements")
	debug := flag.Bool("debug", false, "Enable debug logging")
	verify := flag.Bool("verify", false, "Cross-check the GPU result against the host reference")
	timeout := flag.Duration("timeout", kernelrun.DefaultReadbackTimeout, "Readback timeout")
	flag.Parse()

	if _, err := kernelrun.KernelByName(*kernelName); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := kernelrun.NewDefaultLogger("kernelrun", *debug)
	runner := kernelrun.NewRunner(logger)
	defer runner.Close()
	runner.SetReadbackTimeout(*timeout)

	var err error
	switch *kernelName {
	case "collatz":
		err = runCollatz(runner, *n, *verify)
	case "pairsum":
		err = runPairSum(runner, *n, *verify)
	case "raynorm":
		err = runRays(runner, *n, *verify)
	}
	if err != nil {
		fmt.Println("Error executing kernel:", err)
		os.Exit(1)
	}
}

func runCollatz(runner *kernelrun.Runner, n int, verify bool) error {
	input := make([]uint32, n)
	for i := range input {
		input[i] = uint32(i)
	}

	start := time.Now()
	result, err := runner.RunCollatz(input)
	if err != nil {
		return err
	}
	fmt.Printf("Execution result (%v): %s", time.Since(start), spew.Sdump(result))

	if verify {
		mismatches := 0
		for i, v := range input {
			if result[i] != kernelrun.CollatzSteps(v) {
				mismatches++
			}
		}
		reportVerify(mismatches, n)
	}
	return nil
}

func runPairSum(runner *kernelrun.Runner, n int, verify bool) error {
	input := make([]kernelrun.PairU32, n)
	for i := range input {
		input[i] = kernelrun.PairU32{A: uint32(i), B: uint32(i + 1)}
	}

	result, err := runner.RunPairSum(input)
	if err != nil {
		return err
	}
	fmt.Printf("Execution result: %s", spew.Sdump(result))

	if verify {
		mismatches := 0
		for i, p := range input {
			if result[i] != kernelrun.PairStep(p) {
				mismatches++
			}
		}
		reportVerify(mismatches, n)
	}
	return nil
}

func runRays(runner *kernelrun.Runner, n int, verify bool) error {
	input := make([]kernelrun.Ray, n)
	for i := range input {
		input[i] = kernelrun.Ray{
			Origin:    mgl32.Vec4{float32(i), 0, 0, 1},
			Direction: mgl32.Vec4{float32(i%5) + 1, float32((i + 1) % 3), 1, 0},
		}
	}

	result, err := runner.RunRays(input)
	if err != nil {
		return err
	}
	fmt.Printf("Execution result: %s", spew.Sdump(result))

	if verify {
		mismatches := 0
		for i, r := range input {
			want := kernelrun.RayStep(r)
			if !raysClose(result[i], want) {
				mismatches++
			}
		}
		reportVerify(mismatches, n)
	}
	return nil
}

// raysClose compares with a small epsilon; GPU float math need not match
// the host bit for bit.
func raysClose(a, b kernelrun.Ray) bool {
	const eps = 1e-4
	return a.Origin.ApproxEqualThreshold(b.Origin, eps) &&
		a.Direction.ApproxEqualThreshold(b.Direction, eps)
}

func reportVerify(mismatches, n int) {
	if mismatches == 0 {
		fmt.Printf("Verified %d records against the host reference\n", n)
	} else {
		fmt.Printf("WARNING: %d of %d records differ from the host reference\n", mismatches, n)
	}
}
