package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"javasym/internal/config"
	"javasym/internal/engine"
	"javasym/internal/tree"
	"javasym/internal/typesolver"
	"javasym/internal/validate"
)

// Linear walkthrough over one file: validate it, then resolve every name
// reference and report what each one binds to. The cobra CLI under
// cmd/javasym is the richer entry point.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: javasym <file.java>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg, err := config.Load("config.yaml")
	if err != nil {
		cfg = config.Default()
	}

	f, err := tree.ParseFile(path)
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", path, err)
	}

	problems := validate.NewDefaultPipeline().Run(f)
	for _, p := range problems {
		fmt.Printf("%s: %s\n", path, p)
	}

	solver := typesolver.NewCombinedSolver(typesolver.NewReflectionSolver())
	src := typesolver.NewSourceSolver()
	roots := cfg.Solvers.SourceRoots
	if len(roots) == 0 {
		roots = []string{cfg.Project.Root}
	}
	for _, root := range roots {
		if err := src.AddRoot(root); err != nil {
			log.Fatalf("Failed to scan source root %s: %v", root, err)
		}
	}
	solver.Add(src)

	resolver := engine.NewResolverWithCapacity(solver, cfg.Cache.Capacity)
	resolved, failed := 0, 0
	f.Root().Walk(func(n *tree.Node) bool {
		if !n.IsNameReference() {
			return true
		}
		res, err := resolver.Resolve(n)
		switch {
		case err == nil:
			fmt.Printf("%s %s -> %s (declared %s)\n", n.Pos(), res.Name, res.Type, res.DeclPos)
			resolved++
		default:
			var unnamed *engine.UnnamedVariableError
			var unresolved *engine.UnresolvedSymbolError
			if errors.As(err, &unnamed) || errors.As(err, &unresolved) {
				fmt.Println(err)
			} else {
				fmt.Printf("%s %s: %v\n", n.Pos(), n.Text(), err)
			}
			failed++
		}
		return true
	})

	stats := resolver.Stats()
	fmt.Printf("resolved %d, failed %d; cache: %d requests, %d hits, %d misses\n",
		resolved, failed, stats.RequestCount(), stats.HitCount, stats.MissCount)
}
