// javabind-gen generates typed Go stubs from Java class declarations.
//
//	javabind-gen --package bindings --out ./bindings decls/simple.java
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/chazu/javabind/gen"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("javabind.gen")

var (
	outDir    string
	pkgName   string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   "javabind-gen [declaration files...]",
	Short: "Generate typed Go stubs from Java class declarations",
	Long: "javabind-gen reads Java class declaration files and emits one Go\n" +
		"source file per input, with typed wrappers that resolve and call the\n" +
		"declared members through the jvm package.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commonlog.Configure(verbosity, nil)
		for _, path := range args {
			if err := generate(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	rootCmd.Flags().StringVarP(&pkgName, "package", "p", "bindings", "package name for generated files")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
}

func generate(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	classes, err := gen.Parse(string(src))
	if err != nil {
		return err
	}
	out, err := gen.Emit(pkgName, classes)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	target := filepath.Join(outDir, base+".go")
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return err
	}
	log.Infof("generated %s (%d classes)", target, len(classes))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "javabind-gen: %s\n", err.Error())
		os.Exit(1)
	}
}
