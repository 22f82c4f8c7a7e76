// Command ravelrun loads a compiled .ravel model and feeds it inputs read
// from the command line or stdin, one sample per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/arnewolf/ravel/unrolled"
)

func main() {
	var (
		verbose = flag.Bool("verbose", false, "Print input alongside output")
		version = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Println("ravelrun - ravel VM v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <model.ravel> [input...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	modelPath := args[0]

	f, err := os.Open(modelPath)
	if err != nil {
		log.Fatalf("failed to open model: %v", err)
	}
	defer f.Close()

	vm, err := unrolled.Load(f)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	if len(args) > 1 {
		for _, line := range args[1:] {
			runLine(vm, line, *verbose)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		runLine(vm, line, *verbose)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("error reading stdin: %v", err)
	}
}

func runLine(vm *unrolled.VM, line string, verbose bool) {
	fields := strings.Split(line, ",")
	inputs := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			log.Printf("skipping malformed input %q: %v", line, err)
			return
		}
		inputs[i] = v
	}

	out, err := vm.Feed(inputs)
	if err != nil {
		log.Printf("feed failed: %v", err)
		return
	}

	if verbose {
		fmt.Printf("%s -> %v\n", line, out)
	} else {
		strs := make([]string, len(out))
		for i, v := range out {
			strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		fmt.Println(strings.Join(strs, ","))
	}
}
