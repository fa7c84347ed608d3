package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/pipeline"
	"github.com/castwave/castwave/internal/progress"
)

var generateFlags struct {
	file         string
	output       string
	silenceMS    int
	language     string
	exaggeration float64
	cfgWeight    float64
	noNormalize  bool
	noProcessing bool
	noIndividual bool
	backendURL   string
	outputsDir   string
	verbose      bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate dialogue audio from a script file",
	Long: `Generate dialogue audio from a script file.

Each line is synthesized in order, post-processed, and the lines are
merged with a silence gap between them. Individual line WAVs are saved
alongside the merged file unless --no-individual is set.

Examples:
  castwave generate -f script.txt
  castwave generate -f script.txt -o podcast --silence-ms 300 --language de
  castwave generate -f script.txt --backend-url http://gpu-box:8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if generateFlags.backendURL != "" {
			cfg.TTS.ChatterboxURL = generateFlags.backendURL
		}
		if generateFlags.outputsDir != "" {
			cfg.Paths.OutputsDir = generateFlags.outputsDir
		}

		level := slog.LevelWarn
		if generateFlags.verbose {
			level = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		gen, err := generation.NewFromConfig(cfg, progress.NewMemoryStore(), nil, logger)
		if err != nil {
			return err
		}

		script, err := os.ReadFile(generateFlags.file)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}

		opts := pipeline.Options{
			Style: pipeline.Style{
				Exaggeration: generateFlags.exaggeration,
				CFGWeight:    generateFlags.cfgWeight,
			},
			Language:       generateFlags.language,
			SilenceMS:      generateFlags.silenceMS,
			NormalizeText:  !generateFlags.noNormalize,
			ProcessAudio:   !generateFlags.noProcessing,
			SaveIndividual: !generateFlags.noIndividual,
		}

		output := strings.TrimSuffix(generateFlags.output, ".wav")
		res, err := gen.RunNew(cmd.Context(), generation.Params{
			Script:       string(script),
			OutputPrefix: output,
			Options:      opts,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Generated %d lines (%.1fs) -> %s\n", res.NumLines, res.Duration, res.OutputFile)
		if res.LinesDir != "" {
			fmt.Printf("Individual lines -> %s\n", res.LinesDir)
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.file, "file", "f", "", "dialogue script file (required)")
	f.StringVarP(&generateFlags.output, "output", "o", "conversation", "output name (without .wav)")
	f.IntVarP(&generateFlags.silenceMS, "silence-ms", "s", 500, "silence between lines in milliseconds")
	f.StringVarP(&generateFlags.language, "language", "l", "en", "language code (en, it, es, fr, de, zh, ja, ko)")
	f.Float64VarP(&generateFlags.exaggeration, "exaggeration", "e", 1.5, "expressive intensity (1.0-3.0)")
	f.Float64VarP(&generateFlags.cfgWeight, "cfg-weight", "c", 0.5, "generation fidelity weight (0.0-1.0)")
	f.BoolVar(&generateFlags.noNormalize, "no-normalize-text", false, "skip text normalization (emails etc.)")
	f.BoolVar(&generateFlags.noProcessing, "no-processing", false, "skip audio post-processing")
	f.BoolVar(&generateFlags.noIndividual, "no-individual", false, "skip saving individual line files")
	f.StringVar(&generateFlags.backendURL, "backend-url", "", "chatterbox server URL (overrides CHATTERBOX_URL)")
	f.StringVar(&generateFlags.outputsDir, "outputs-dir", "", "output directory (overrides OUTPUTS_DIR)")
	f.BoolVarP(&generateFlags.verbose, "verbose", "v", false, "log per-line progress")
	generateCmd.MarkFlagRequired("file")
}
