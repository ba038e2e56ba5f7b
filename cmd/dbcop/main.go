// Command dbcop checks a transaction history against a consistency level.
//
// Usage:
//
//	dbcop check <history.json> --level=serializable
//	dbcop check <history.json> --config=dbcop.yaml
//	dbcop decompose <history.json>
//	dbcop version
//
// This is a minimal JSON-adapter CLI surface: a thin wrapper over
// adapter/json and pkg/dbcop, not a database driver or test-generation
// harness.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	adapterjson "github.com/rnbguy/dbcop/adapter/json"
	"github.com/rnbguy/dbcop/pkg/dbcop"
	"github.com/rnbguy/dbcop/pkg/dbcop/checkcache"
	"github.com/rnbguy/dbcop/pkg/dbcop/consistency"
	"github.com/rnbguy/dbcop/pkg/dbcop/decomposition"
	"github.com/rnbguy/dbcop/pkg/dbcop/saturation"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dbcop",
		Short: "dbcop checks transaction histories for consistency violations",
		Long: `dbcop decides whether a recorded transaction history satisfies a
target consistency level, from Committed-Read up to Serializable.

Levels, weakest to strongest:
  committed-read, repeatable-read, atomic-read, causal,
  prefix, snapshot-isolation, serializable`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dbcop v%s (%s)\n", version, commit)
		},
	})

	checkCmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check one or more history files against a consistency level",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().String("level", "", "consistency level to check (overrides --config, default serializable)")
	checkCmd.Flags().String("cache-dir", "", "badger cache directory, memoizes results across runs (overrides --config)")
	checkCmd.Flags().Bool("json", false, "print one JSON result object per file")
	rootCmd.PersistentFlags().String("config", "", "YAML file with default level/cache-dir")
	rootCmd.AddCommand(checkCmd)

	decomposeCmd := &cobra.Command{
		Use:   "decompose <file>",
		Short: "Print the communication graph's connected and biconnected components",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecompose,
	}
	rootCmd.AddCommand(decomposeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseLevel(name string) (consistency.Level, error) {
	switch name {
	case "committed-read":
		return consistency.CommittedRead, nil
	case "repeatable-read":
		return consistency.RepeatableRead, nil
	case "atomic-read":
		return consistency.AtomicRead, nil
	case "causal":
		return consistency.Causal, nil
	case "prefix":
		return consistency.Prefix, nil
	case "snapshot-isolation":
		return consistency.SnapshotIsolation, nil
	case "serializable":
		return consistency.Serializable, nil
	default:
		return 0, fmt.Errorf("unknown consistency level %q", name)
	}
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	levelName, _ := cmd.Flags().GetString("level")
	if levelName == "" {
		levelName = cfg.Level
	}
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	runID := uuid.NewString()
	log.Printf("dbcop check run=%s level=%s files=%d", runID, levelName, len(args))

	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}

	var cache *checkcache.Cache
	if cacheDir != "" {
		cache, err = checkcache.Open(cacheDir)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer cache.Close()
	}

	anyFailed := false
	for _, path := range args {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		sessions, decodeErr := adapterjson.Decode(file)
		file.Close()
		if decodeErr != nil {
			return fmt.Errorf("parsing %s: %w", path, decodeErr)
		}

		var w dbcop.Witness
		var checkErr error
		if cache != nil {
			w, checkErr = checkcache.CheckCached(cache, sessions, level)
		} else {
			w, checkErr = dbcop.Check(sessions, level)
		}

		if checkErr != nil {
			anyFailed = true
		}

		if asJSON {
			if encErr := adapterjson.EncodeResult(os.Stdout, adapterjson.ResultFor(path, w, checkErr)); encErr != nil {
				return encErr
			}
			continue
		}

		if checkErr != nil {
			fmt.Printf("%s: FAIL (%v)\n", path, checkErr)
		} else {
			fmt.Printf("%s: PASS\n", path)
		}
	}

	if anyFailed {
		os.Exit(1)
	}
	return nil
}

func runDecompose(cmd *cobra.Command, args []string) error {
	path := args[0]
	log.Printf("dbcop decompose run=%s file=%s", uuid.NewString(), path)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	sessions, err := adapterjson.Decode(file)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	p, err := saturation.CheckCausalRead(sessions)
	if err != nil {
		return err
	}

	comm := decomposition.CommunicationGraph(p)
	connected := comm.ConnectedComponents()
	fmt.Printf("%d connected component(s) in the communication graph\n", len(connected))
	for i, c := range connected {
		fmt.Printf("  component %d: %d session(s)\n", i, len(c))
	}

	articulation, biconnected, singletons := decomposition.GetVertexComponents(comm)
	fmt.Printf("%d biconnected component(s), %d articulation point(s), %d trivial vertex/vertex-pair group(s)\n",
		len(biconnected), len(articulation), len(singletons))

	return nil
}
