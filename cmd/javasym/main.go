package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"javasym/internal/config"
	"javasym/internal/engine"
	"javasym/internal/store"
	"javasym/internal/tree"
	"javasym/internal/typesolver"
	"javasym/internal/validate"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "javasym",
		Short: "Java symbol resolution over tree-sitter parse trees",
	}
	configPath string
	occurrence int
	showStats  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the solver configuration")

	resolveCmd.Flags().IntVarP(&occurrence, "occurrence", "n", 1, "Which occurrence of the name to resolve (1-based)")
	resolveCmd.Flags().BoolVar(&showStats, "stats", false, "Print cache statistics after resolving")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(indexCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Default()
		}
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// buildSolver assembles the combined backend chain in configured priority
// order.
func buildSolver(cfg *config.Config) typesolver.TypeSolver {
	combined := typesolver.NewCombinedSolver()
	for _, name := range cfg.Solvers.Order {
		switch name {
		case "reflection":
			combined.Add(typesolver.NewReflectionSolver())
		case "source":
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
			combined.Add(src)
		case "index":
			if cfg.Solvers.IndexPath == "" {
				log.Fatal("Solver order names \"index\" but solvers.index_path is not set")
			}
			idx, err := store.Open(cfg.Solvers.IndexPath)
			if err != nil {
				log.Fatalf("Failed to open type index: %v", err)
			}
			combined.Add(store.NewIndexedSolver(idx))
		case "archive":
			for _, path := range cfg.Solvers.Archives {
				archive, err := typesolver.NewArchiveSolver(path)
				if err != nil {
					log.Fatalf("Failed to index archive %s: %v", path, err)
				}
				combined.Add(archive)
			}
		default:
			log.Fatalf("Unknown solver backend: %s", name)
		}
	}
	return combined
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file> <name>",
	Short: "Resolve a name reference to its declaration and type",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		f, err := tree.ParseFile(args[0])
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", args[0], err)
		}

		refs := f.NameReferences(args[1])
		if occurrence < 1 || occurrence > len(refs) {
			log.Fatalf("File has %d reference(s) to '%s'", len(refs), args[1])
		}
		ref := refs[occurrence-1]

		resolver := engine.NewResolverWithCapacity(buildSolver(cfg), cfg.Cache.Capacity)
		res, err := resolver.Resolve(ref)
		if err != nil {
			// Report the error kind verbatim with the node's position.
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("%s %s: %s (declared %s in %s scope)\n", ref.Pos(), res.Name, res.Type, res.DeclPos, res.DeclScope)

		if showStats {
			printStats(resolver)
		}
	},
}

func printStats(resolver *engine.Resolver) {
	stats := resolver.Stats()
	fmt.Printf("cache: %d requests, %d hits, %d misses, %d loads, %d evictions, %.0f%% hit rate\n",
		stats.RequestCount(), stats.HitCount, stats.MissCount, stats.LoadCount(), stats.EvictionCount, stats.HitRate()*100)
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Run the language-level validators and report diagnostics",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pipeline := validate.NewDefaultPipeline()
		failed := false
		for _, path := range args {
			f, err := tree.ParseFile(path)
			if err != nil {
				log.Fatalf("Failed to parse %s: %v", path, err)
			}
			for _, problem := range pipeline.Run(f) {
				fmt.Printf("%s: %s\n", path, problem)
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <name>",
	Short: "Solve a type name through the configured backends",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		decl, err := buildSolver(cfg).Solve(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("%s (%s, via %s)\n", decl.QualifiedName, decl.Kind, decl.Origin)
		for _, c := range decl.Components {
			fmt.Printf("  component %s %s\n", c.Type, c.Name)
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan the configured source roots into the persistent type index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Solvers.IndexPath == "" {
			log.Fatal("solvers.index_path is not set")
		}

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

		idx, err := store.Open(cfg.Solvers.IndexPath)
		if err != nil {
			log.Fatalf("Failed to open type index: %v", err)
		}
		defer idx.Close()

		types := src.Types()
		if err := idx.Save(context.Background(), types); err != nil {
			log.Fatalf("Failed to save index: %v", err)
		}
		fmt.Printf("Indexed %d types into %s\n", len(types), cfg.Solvers.IndexPath)
	},
}
