// Command ravelc compiles a JSON network description into a .ravel binary
// that cmd/ravelrun can load and execute without ever touching the graph
// package again.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arnewolf/ravel/compile"
	"github.com/arnewolf/ravel/graph"
	"github.com/arnewolf/ravel/unrolled"
)

func main() {
	var (
		validate = flag.Bool("validate", true, "Validate graph structure before compiling")
		verbose  = flag.Bool("verbose", false, "Log slot allocation and emitted kernel sizes")
		version  = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Println("ravelc - ravel compiler v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <net.json> <out.ravel>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	srcFile, outFile := args[0], args[1]

	net, err := loadNetworkSpec(srcFile)
	if err != nil {
		log.Fatalf("failed to load network spec: %v", err)
	}

	opts := compile.DefaultOptions()
	opts.ValidateGraph = *validate
	opts.Verbose = *verbose

	program, err := compile.Network(net, opts)
	if err != nil {
		log.Fatalf("compilation failed: %v", err)
	}

	vm := unrolled.New(program)

	f, err := os.Create(outFile)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	if err := vm.Save(f); err != nil {
		log.Fatalf("failed to write compiled model: %v", err)
	}

	fmt.Printf("Successfully compiled %s -> %s (%d slots)\n", srcFile, outFile, program.Table.Size())
}

// netSpec is the JSON shape of a network description: layers of neurons,
// each naming its kind, bias, optional self-connection, and incoming
// connections by (layer, index) reference to an earlier-declared neuron.
type netSpec struct {
	Layers [][]neuronSpec `json:"layers"`
}

type ref struct {
	Layer int `json:"layer"`
	Index int `json:"index"`
}

type selfSpec struct {
	Weight   float64 `json:"weight"`
	GatedBy  *ref    `json:"gatedBy,omitempty"`
}

type connSpec struct {
	From    ref     `json:"from"`
	Weight  float64 `json:"weight"`
	GatedBy *ref    `json:"gatedBy,omitempty"`
}

type neuronSpec struct {
	Kind     string     `json:"kind"`
	Bias     float64    `json:"bias"`
	Self     *selfSpec  `json:"self,omitempty"`
	Incoming []connSpec `json:"incoming,omitempty"`
}

func parseKind(s string) (graph.Kind, error) {
	switch s {
	case "input":
		return graph.Input, nil
	case "hidden":
		return graph.Hidden, nil
	case "output":
		return graph.Output, nil
	case "frozen":
		return graph.Frozen, nil
	default:
		return 0, fmt.Errorf("unknown neuron kind %q", s)
	}
}

func loadNetworkSpec(path string) (*graph.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec netSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	net := &graph.Network{Layers: make([]graph.Layer, len(spec.Layers))}
	for li, layerSpec := range spec.Layers {
		layer := make(graph.Layer, len(layerSpec))
		for ni, ns := range layerSpec {
			kind, err := parseKind(ns.Kind)
			if err != nil {
				return nil, fmt.Errorf("layer %d neuron %d: %w", li, ni, err)
			}
			n := graph.NewNeuron(kind)
			n.Bias = ns.Bias
			layer[ni] = n
		}
		net.Layers[li] = layer
	}

	selfConns := make(map[ref]*graph.Connection)
	incomingConns := make(map[ref]map[int]*graph.Connection)

	for li, layerSpec := range spec.Layers {
		for ni, ns := range layerSpec {
			target := net.Layers[li][ni]

			if ns.Self != nil {
				c := graph.SelfConnect(target, ns.Self.Weight)
				selfConns[ref{li, ni}] = c
			}

			for ci, cs := range ns.Incoming {
				from := net.Layers[cs.From.Layer][cs.From.Index]
				c := graph.Connect(from, target, cs.Weight)
				if incomingConns[ref{li, ni}] == nil {
					incomingConns[ref{li, ni}] = make(map[int]*graph.Connection)
				}
				incomingConns[ref{li, ni}][ci] = c
			}
		}
	}

	for li, layerSpec := range spec.Layers {
		for ni, ns := range layerSpec {
			if ns.Self != nil && ns.Self.GatedBy != nil {
				gater := net.Layers[ns.Self.GatedBy.Layer][ns.Self.GatedBy.Index]
				graph.Gate(gater, selfConns[ref{li, ni}])
			}
			for ci, cs := range ns.Incoming {
				if cs.GatedBy != nil {
					gater := net.Layers[cs.GatedBy.Layer][cs.GatedBy.Index]
					graph.Gate(gater, incomingConns[ref{li, ni}][ci])
				}
			}
		}
	}

	return net, nil
}
