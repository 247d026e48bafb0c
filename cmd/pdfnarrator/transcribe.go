package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdfnarrator/internal/app"
	"pdfnarrator/internal/config"
	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"
)

type transcribeOptions struct {
	Path     string
	Out      string
	Speak    bool
	Language string
	Slow     bool
	AudioOut string
}

func newTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe FILE.pdf",
		Short: "Extract the text of a scanned PDF",
		Long: `Rasterizes each page, runs OCR and writes the transcript to stdout or --out.
Progress lines ("Processed page i/N") go to stderr.
Speech is only generated when --speak is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			cfg.Pipeline.OCREngine = viper.GetString("ocr_engine")
			cfg.Pipeline.Workers = viper.GetInt("ocr_workers")
			cfg.Pipeline.DPI = viper.GetFloat64("raster_dpi")
			cfg.Speech.Provider = viper.GetString("speech_provider")

			level := slog.LevelWarn
			if viper.GetBool("verbose") {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.Pipeline.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Pipeline.Timeout)
				defer cancel()
			}

			components, err := app.Build(ctx, cfg, app.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer components.Close()

			return runTranscribe(ctx, components.Service, transcribeOptions{
				Path:     args[0],
				Out:      viper.GetString("out"),
				Speak:    viper.GetBool("speak"),
				Language: viper.GetString("speech_language"),
				Slow:     viper.GetBool("slow"),
				AudioOut: viper.GetString("audio_out"),
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringP("out", "o", "", "write the transcript to this file instead of stdout")
	flags.Bool("speak", false, "also convert the transcript to MP3 speech")
	flags.StringP("lang", "l", string(model.DefaultLanguage), "speech language (en, es, fr, de, hi)")
	flags.Bool("slow", false, "slower speech")
	flags.String("audio-out", model.AudioFilename, "where to write the MP3 when --speak is set")
	flags.IntP("workers", "w", 1, "concurrent OCR calls")
	flags.Float64("dpi", 72, "rasterization resolution")
	flags.String("engine", "auto", "OCR engine: auto, tesseract or gemini")
	flags.String("provider", "auto", "speech provider: auto, google or openai")

	for key, flag := range map[string]string{
		"out":             "out",
		"speak":           "speak",
		"speech_language": "lang",
		"slow":            "slow",
		"audio_out":       "audio-out",
		"ocr_workers":     "workers",
		"raster_dpi":      "dpi",
		"ocr_engine":      "engine",
		"speech_provider": "provider",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	return cmd
}

// runTranscribe extracts the transcript of opts.Path and, when asked, narrates it.
func runTranscribe(ctx context.Context, svc service.TranscriptService, opts transcribeOptions, stdout, stderr io.Writer) error {
	if opts.Speak {
		// Fail before OCR rather than after it.
		if _, ok := model.ParseLanguage(opts.Language); !ok {
			return withHint(fmt.Errorf("%w: %q", pipeline.ErrUnsupportedLanguage, opts.Language))
		}
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := svc.Extract(ctx, f, filepath.Base(opts.Path), func(p pipeline.Progress) {
		fmt.Fprintln(stderr, p.Message())
	})
	if err != nil {
		return withHint(err)
	}

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, []byte(res.Text), 0o644); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		fmt.Fprintf(stderr, "Wrote transcript of %d pages to %s\n", res.PageCount, opts.Out)
	} else if _, err := io.WriteString(stdout, res.Text+"\n"); err != nil {
		return err
	}

	if !opts.Speak {
		return nil
	}

	clip, err := svc.Narrate(ctx, res.Text, opts.Language, opts.Slow)
	if err != nil {
		return withHint(err)
	}
	if err := os.WriteFile(opts.AudioOut, clip.Data, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	fmt.Fprintf(stderr, "Wrote %d bytes of %s audio to %s\n", len(clip.Data), clip.Language, opts.AudioOut)
	return nil
}

func withHint(err error) error {
	if hint := pipeline.Remediation(err); hint != "" {
		return fmt.Errorf("%w\n%s", err, hint)
	}
	return err
}
