package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sentra/internal/domain"
	"sentra/internal/usecase"
)

var (
	lineRange     string
	selectionFile string
	projectDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate unit tests for a source file or a selection of it",
	Long: `Generate unit tests for every function in a source file, or only for the
functions inside a selection.

Whole-file runs also look up the base classes the file extends, in the same
file or elsewhere in the workspace, and include them as context.

Supported extensions: .java .cs .py .ts .tsx

Examples:
  sentra generate src/main/java/com/acme/Foo.java
  sentra generate app/service.py --lines 12:40
  sentra generate Foo.cs --selection-file /tmp/selection.txt
  sentra generate Foo.java --project-dir ./module-a`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&lineRange, "lines", "", "generate only for lines START:END (1-based, inclusive)")
	generateCmd.Flags().StringVar(&selectionFile, "selection-file", "", "generate only for the code in this file")
	generateCmd.Flags().StringVar(&projectDir, "project-dir", "", "directory that receives sentra-unittests/ (default depends on language)")
	generateCmd.MarkFlagsMutuallyExclusive("lines", "selection-file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lang, ok := domain.ParseLanguage(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, filepath.Ext(path))
	}

	workspace, err := filepath.Abs(GetRootDir())
	if err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}

	req := usecase.GenerateRequest{
		Source: domain.SourceUnit{
			Lang:          lang,
			Text:          string(data),
			Path:          path,
			WorkspaceRoot: workspace,
		},
		ProjectDir: resolveProjectDir(projectDir, workspace, lang),
	}

	switch {
	case lineRange != "":
		start, end, err := parseLineRange(lineRange)
		if err != nil {
			return err
		}
		req.SelectionMode = true
		req.Selection = sliceLines(string(data), start, end)
	case selectionFile != "":
		sel, err := os.ReadFile(selectionFile)
		if err != nil {
			return fmt.Errorf("failed to read selection: %w", err)
		}
		req.SelectionMode = true
		req.Selection = string(sel)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Generating[reset] "+filepath.Base(path)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	result, err := a.generator().Run(ctx, req, func(percent int) {
		_ = bar.Set(percent)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoUserToken) || errors.Is(err, domain.ErrInvalidUserToken) {
			logger.Error("authentication required", zap.Error(err))
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch result.State {
	case domain.RunCancelled:
		fmt.Fprintf(out, "\nGeneration cancelled.\n")
	default:
		fmt.Fprintf(out, "\nGeneration complete:\n")
	}
	fmt.Fprintf(out, "  Units:         %d\n", len(result.Units))
	fmt.Fprintf(out, "  Files written: %d\n", len(result.Written))
	if result.Failed > 0 {
		fmt.Fprintf(out, "  Failed:        %d (see log)\n", result.Failed)
	}
	fmt.Fprintf(out, "\nOutput: %s\n", filepath.Join(req.ProjectDir, GetConfig().Output.DirName))
	return nil
}

// resolveProjectDir picks where test output goes: an explicit directory, the
// Maven/Gradle test root for Java workspaces that have one, or the workspace.
func resolveProjectDir(explicit, workspace string, lang domain.Language) string {
	if explicit != "" {
		if abs, err := filepath.Abs(explicit); err == nil {
			return abs
		}
		return explicit
	}
	if lang == domain.LangJava {
		testRoot := filepath.Join(workspace, "src", "test", "java")
		if info, err := os.Stat(testRoot); err == nil && info.IsDir() {
			return testRoot
		}
	}
	return workspace
}

func parseLineRange(s string) (int, int, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --lines %q: want START:END", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --lines start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --lines end: %w", err)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid --lines %q: need 1 <= START <= END", s)
	}
	return start, end, nil
}

// sliceLines returns lines start..end (1-based, inclusive), clamped to the text.
func sliceLines(text string, start, end int) string {
	lines := strings.Split(text, "\n")
	if start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start-1:end], "\n")
}
