package review

import (
	"bufio"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pilesort/internal/handlecache"
	"pilesort/internal/logging"
)

// Options controls pile replay.
type Options struct {
	// Opener is the resolved program to open pile directories with. Empty
	// selects the OS default file opener.
	Opener string
	// SkipTo starts replay at the Nth pile directory (1-based). Zero or one
	// starts at the beginning.
	SkipTo int
	// SkipSingletons passes over piles containing a single image; there is
	// nothing to discard in them.
	SkipSingletons bool
}

// Preview is the cached handle for one pile: its first decoded image header
// and the member count. Revisiting a pile reuses the handle instead of
// decoding again.
type Preview struct {
	Count  int
	First  string
	Width  int
	Height int
}

// Session steps through materialized pile directories in lexicographic
// order. It owns a bounded handle cache; the session is single-owner and not
// safe for concurrent use.
type Session struct {
	logger  *slog.Logger
	handles *handlecache.Cache[Preview]
	keys    map[string]handlecache.Key

	input  io.Reader
	output io.Writer
	spawn  func(ctx context.Context, exe, dir string) error
}

// NewSession constructs a review session with the given handle cache capacity.
func NewSession(capacity int, logger *slog.Logger) (*Session, error) {
	handles, err := handlecache.New[Preview](capacity)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		logger:  logger,
		handles: handles,
		keys:    make(map[string]handlecache.Key),
		input:   os.Stdin,
		output:  os.Stdout,
		spawn:   spawnOpener,
	}, nil
}

// Run replays the pile directories under root. With an explicit opener each
// pile blocks until the opener exits; with the OS default opener the session
// prompts between piles and supports stepping back to the previous pile.
func (s *Session) Run(ctx context.Context, root string, opts Options) error {
	dirs, err := listPileDirs(root)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		fmt.Fprintln(s.output, "No pile directories found.")
		return nil
	}

	reader := bufio.NewReader(s.input)
	start := 0
	if opts.SkipTo > 1 {
		start = opts.SkipTo - 1
	}

	for i := start; i < len(dirs); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := dirs[i]

		preview, err := s.preview(dir)
		if err != nil {
			s.logger.Warn("pile preview unavailable",
				logging.String(logging.FieldPile, filepath.Base(dir)),
				logging.Error(err))
		}
		if opts.SkipSingletons && preview.Count == 1 {
			s.logger.Debug("skipping singleton pile",
				logging.String(logging.FieldPile, filepath.Base(dir)))
			continue
		}

		s.announce(dir, preview)

		if opts.Opener != "" {
			if err := s.spawn(ctx, opts.Opener, dir); err != nil {
				return fmt.Errorf("open pile %q: %w", dir, err)
			}
			continue
		}

		if err := s.spawn(ctx, osOpener(), dir); err != nil {
			return fmt.Errorf("open pile %q: %w", dir, err)
		}
		switch s.prompt(reader) {
		case actionQuit:
			return nil
		case actionBack:
			// Step to the predecessor; the loop increment lands on it again.
			i -= 2
			if i < start-1 {
				i = start - 1
			}
		}
	}
	return nil
}

// preview returns the cached handle for dir, decoding the first image only on
// a cache miss or after eviction.
func (s *Session) preview(dir string) (Preview, error) {
	if key, ok := s.keys[dir]; ok {
		return s.handles.GetOrInsert(key, func() Preview {
			p, _ := buildPreview(dir)
			return p
		}), nil
	}

	p, err := buildPreview(dir)
	if err != nil {
		return Preview{}, err
	}
	s.keys[dir] = s.handles.Push(p)
	return p, nil
}

func (s *Session) announce(dir string, preview Preview) {
	label := filepath.Base(dir)
	if preview.Count > 0 {
		fmt.Fprintf(s.output, "Pile %s: %d images", label, preview.Count)
		if preview.Width > 0 {
			fmt.Fprintf(s.output, " (%s, %dx%d)", filepath.Base(preview.First), preview.Width, preview.Height)
		}
		fmt.Fprintln(s.output)
		return
	}
	fmt.Fprintf(s.output, "Pile %s\n", label)
}

type action int

const (
	actionNext action = iota
	actionBack
	actionQuit
)

func (s *Session) prompt(reader *bufio.Reader) action {
	fmt.Fprint(s.output, "Enter: next pile, b: previous pile, q: quit > ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return actionQuit
	}
	switch strings.TrimSpace(line) {
	case "b", "B":
		return actionBack
	case "q", "Q":
		return actionQuit
	default:
		return actionNext
	}
}

func buildPreview(dir string) (Preview, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Preview{}, err
	}

	preview := Preview{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		preview.Count++
		if preview.First == "" {
			preview.First = filepath.Join(dir, entry.Name())
		}
	}

	if preview.First != "" {
		if cfg, err := decodeHeader(preview.First); err == nil {
			preview.Width, preview.Height = cfg.Width, cfg.Height
		}
	}
	return preview, nil
}

func decodeHeader(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}

// listPileDirs returns the subdirectories of root in lexicographic order.
// Loose files such as the run report are ignored.
func listPileDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read piles root %q: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func spawnOpener(ctx context.Context, exe, dir string) error {
	cmd := exec.CommandContext(ctx, exe, dir)
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// osOpener names the platform file opener used when no explicit program was
// requested.
func osOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}
