package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/rustlint/internal/config"
	"github.com/phobologic/rustlint/internal/expand"
	"github.com/phobologic/rustlint/internal/lang"
	"github.com/phobologic/rustlint/internal/layout"
	"github.com/phobologic/rustlint/internal/parse"
	"github.com/phobologic/rustlint/internal/syntax"
)

func newExpandCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "expand FILE",
		Short: "Print the expansion of every macro_rules! invocation in a file",
		Long: `Print the expansion of every invocation of a macro_rules! macro defined
in FILE, laid out by the token printer. Invocations that cannot be expanded
are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, ".")
			if err != nil {
				return err
			}
			return runExpand(args[0], cfg, stdout, newWarner(stderr, false))
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	return cmd
}

func runExpand(path string, cfg *config.Config, stdout io.Writer, warn *warner) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rl := lang.Rust()
	query, err := rl.GetTagQuery()
	if err != nil {
		return fmt.Errorf("compiling query: %w", err)
	}
	parser := rl.NewParser()
	defer parser.Close()

	res, err := parse.File(parser, query, source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if res.HasErrors {
		warn.printf("%s: syntax errors, results may be incomplete", path)
	}

	exp := expand.NewMacroRules(parser, query, res.Macros)
	printer := layout.Printer{IndentWidth: cfg.Layout.PrettyIndent}
	for _, call := range res.Invocations {
		tree, ok := exp.Expand(call)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(stdout, "// %s:%s\n%s\n\n", path, call.Position(), printer.Print(expansionTokens(tree)))
	}
	return nil
}

// expansionTokens returns the tokens of an expansion, without the function
// that statement expansions are parsed in.
func expansionTokens(tree *syntax.Tree) []syntax.Node {
	body, ok := expand.StatementBody(tree)
	if !ok {
		return tree.Root().Tokens()
	}
	var toks []syntax.Node
	for _, t := range body.Tokens() {
		if !t.IsTrivia() {
			toks = append(toks, t)
		}
	}
	if len(toks) < 2 {
		return nil
	}
	return toks[1 : len(toks)-1]
}
