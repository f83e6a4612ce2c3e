package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/SAP-F-2025/valentine-service/internal/audio"
	"github.com/SAP-F-2025/valentine-service/internal/config"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/terminal"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/SAP-F-2025/valentine-service/internal/validator"
	"github.com/SAP-F-2025/valentine-service/internal/viewer"
	"github.com/gdamore/tcell/v2"
)

const usage = `Usage:
  valentine                         open the link creator in the terminal
  valentine create -from A -to B    print a shareable link
          [-quiz quiz.xlsx|quiz.csv] [-base URL] [-path /]
  valentine open [-touch] [-sound] [-no-clipboard] <link>
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	cmd := "open"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "create":
		err = runCreate(cfg, args, os.Stdout)
	case "open":
		err = runOpen(cfg, args)
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "valentine: %v\n", err)
		os.Exit(1)
	}
}

func runCreate(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	from := fs.String("from", "", "your name")
	to := fs.String("to", "", "your Valentine's name")
	quizFile := fs.String("quiz", "", "spreadsheet with question, answer and hint columns")
	base := fs.String("base", cfg.PublicBaseURL, "origin of the generated link")
	path := fs.String("path", cfg.LinkPath, "path of the generated link")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := link.Request{From: *from, To: *to}
	if *quizFile != "" {
		quiz, err := importQuiz(*quizFile, out)
		if err != nil {
			return err
		}
		req.Quiz = quiz
	}

	l, err := link.NewBuilder(*base, *path, validator.New()).Generate(req)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Field, e.Message)
			}
		}
		return err
	}

	fmt.Fprintln(out, l.URL)
	return nil
}

func importQuiz(path string, out io.Writer) ([]models.QuizQuestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logger := utils.ToSlogLogger(utils.NewDiscardLogger())
	result, err := services.NewImportExportService(nil, logger).ImportQuiz(context.Background(), f, path)
	if err != nil {
		return nil, err
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped row %d: %s\n", s.Row, s.Message)
	}
	return result.Quiz, nil
}

// queryOf accepts a full link, a bare "?query" or a bare query string.
func queryOf(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

func runOpen(cfg *config.Config, args []string) (err error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	touch := fs.Bool("touch", false, "behave like a touch screen")
	sound := fs.Bool("sound", false, "play a chime when the proposal is accepted")
	noClipboard := fs.Bool("no-clipboard", false, "always show links for manual copying")
	base := fs.String("base", cfg.PublicBaseURL, "origin of links generated in the creator")
	path := fs.String("path", cfg.LinkPath, "path of links generated in the creator")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rawQuery := ""
	if fs.NArg() > 0 {
		rawQuery = queryOf(fs.Arg(0))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			err = fmt.Errorf("viewer crashed: %v\n%s", r, debug.Stack())
		}
	}()

	var player audio.Player
	if *sound {
		// No audio device just means a silent celebration.
		_ = player.Init()
		defer player.Close()
	}

	tv := terminal.New(screen, terminal.Options{Touch: *touch, NoClipboard: *noClipboard})

	opts := viewer.DefaultOptions()
	opts.Builder = link.NewBuilder(*base, *path, validator.New())
	opts.Dodge = terminal.DodgeConfig()
	opts.Logger = utils.NewDiscardLogger()
	opts.OnAccept = func(models.Proposal) { player.PlayChime() }

	app := viewer.New(tv, opts)
	app.Start(rawQuery)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	tv.Run(ctx)
	screen.Fini()

	if l := app.Link(); l != "" {
		fmt.Println(l)
	}
	if app.Accepted() {
		fmt.Println("💖 They said yes!")
	}
	return nil
}
