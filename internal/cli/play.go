package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"minigames/internal/games"
	"minigames/internal/localstats"
	"minigames/internal/report"
	"minigames/internal/sessions"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// terminal reads one line per prompt. Typing q or quit abandons the game.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminal) prompt(label string) (string, bool) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		fmt.Fprintln(t.out)
		return "", false
	}
	line := strings.TrimSpace(t.in.Text())
	if line == "q" || line == "quit" {
		return "", false
	}
	return line, true
}

func (t *terminal) promptInt(label string) (int, bool) {
	for {
		line, ok := t.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, true
		}
		fmt.Fprintln(t.out, badStyle.Render("Enter a number."))
	}
}

type playFunc func(t *terminal, opts sessions.Options) (sessions.Result, bool)

var terminalGames = map[games.GameType]playFunc{
	games.NumberGuess: playNumberGuess,
	games.MemoryCard:  playMemoryCard,
	games.Puzzle:      playPuzzle,
	games.Typing:      playTyping,
	games.ColorMatch:  playColorMatch,
}

func newPlayCmd(app *App) *cobra.Command {
	var (
		offline bool
		name    string
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "play <game>",
		Short: "Play a turn-based game in the terminal",
		Long: `Play number-guess, memory-card, puzzle, typing or color-match in the terminal.
Results are posted to API_BASE_URL, or written to the local record store with
--offline. Personal bests are kept in LOCAL_STATS_PATH either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gt, err := games.Parse(args[0])
			if err != nil {
				return err
			}
			play, ok := terminalGames[gt]
			if !ok {
				return fmt.Errorf("%s needs real-time input and cannot be played in the terminal", gt)
			}

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			policy, err := loadPolicy(cfg)
			if err != nil {
				return err
			}
			repo := localstats.New(cfg.LocalStatsPath, policy)
			if err := repo.Load(); err != nil {
				return err
			}
			if name != "" {
				repo.SetPlayerName(name)
				if err := repo.Save(); err != nil {
					return err
				}
			}
			id := report.Identity{PlayerID: repo.PlayerID(), PlayerName: repo.PlayerName()}

			var remote sessions.Reporter
			if offline {
				store, err := openLocalStore(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				remote = report.StoreReporter{Store: store, Identity: id}
			} else {
				remote = report.NewClient(cfg.APIBaseURL, id)
			}

			opts := sessions.Options{Reporter: report.Multi{remote, repo.Reporter()}}
			if seed != 0 {
				opts.Rand = rand.New(rand.NewSource(seed))
			}

			out := cmd.OutOrStdout()
			t := &terminal{in: bufio.NewScanner(cmd.InOrStdin()), out: out}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s, playing as %s (q to quit)", gt, id.PlayerName)))

			res, ok := play(t, opts)
			if !ok {
				fmt.Fprintln(out, mutedStyle.Render("Game abandoned."))
				return nil
			}
			fmt.Fprintln(out, goodStyle.Render(fmt.Sprintf("Score: %s  Time: %ss", formatScore(res.Score), formatScore(res.Time))))
			if best := repo.Stat(gt).Best; best != nil {
				fmt.Fprintln(out, goldStyle.Render("Personal best: "+formatScore(*best)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Write results to the local record store instead of the API")
	cmd.Flags().StringVar(&name, "name", "", "Player name to record (remembered)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for a repeatable game")
	return cmd
}

func playNumberGuess(t *terminal, opts sessions.Options) (sessions.Result, bool) {
	g := sessions.NewNumberGuess(opts)
	fmt.Fprintf(t.out, "I'm thinking of a number between %d and %d.\n", sessions.GuessMin, sessions.GuessMax)
	for {
		n, ok := t.promptInt("Guess: ")
		if !ok {
			return sessions.Result{}, false
		}
		hint, err := g.Guess(n)
		if errors.Is(err, sessions.ErrOutOfRange) {
			fmt.Fprintln(t.out, badStyle.Render(err.Error()))
			continue
		}
		if err != nil {
			return sessions.Result{}, false
		}
		switch hint {
		case sessions.HintHigher:
			fmt.Fprintln(t.out, "Higher!")
		case sessions.HintLower:
			fmt.Fprintln(t.out, "Lower!")
		case sessions.HintCorrect:
			fmt.Fprintf(t.out, "Got it in %d.\n", g.Attempts())
			return g.Result()
		}
	}
}

func renderCards(w io.Writer, cards []sessions.Card) {
	for i, c := range cards {
		cell := mutedStyle.Render(fmt.Sprintf("%2d", i+1))
		if c.FaceUp || c.Matched {
			cell = c.Symbol
		}
		fmt.Fprintf(w, " %s ", cell)
		if (i+1)%4 == 0 {
			fmt.Fprintln(w)
		}
	}
}

func playMemoryCard(t *terminal, opts sessions.Options) (sessions.Result, bool) {
	m := sessions.NewMemoryCard(opts)
	for m.Status() != sessions.Completed {
		renderCards(t.out, m.Cards())
		n, ok := t.promptInt("Flip card: ")
		if !ok {
			return sessions.Result{}, false
		}
		outcome, err := m.Flip(n - 1)
		if err != nil {
			fmt.Fprintln(t.out, badStyle.Render(err.Error()))
			continue
		}
		switch outcome {
		case sessions.FlipMatch:
			fmt.Fprintln(t.out, goodStyle.Render(fmt.Sprintf("Match! %d/%d pairs", m.Matched(), sessions.MemoryPairs)))
		case sessions.FlipMismatch:
			renderCards(t.out, m.Cards())
			fmt.Fprintln(t.out, badStyle.Render("No match."))
			m.Resolve()
		}
	}
	fmt.Fprintf(t.out, "Cleared in %d moves.\n", m.Moves())
	return m.Result()
}

func renderPuzzle(w io.Writer, b sessions.PuzzleBoard) {
	for i, v := range b {
		cell := " ."
		if v != 0 {
			cell = fmt.Sprintf("%2d", v)
		}
		fmt.Fprintf(w, " %s", cell)
		if (i+1)%sessions.PuzzleSize == 0 {
			fmt.Fprintln(w)
		}
	}
}

func playPuzzle(t *terminal, opts sessions.Options) (sessions.Result, bool) {
	p := sessions.NewPuzzle(opts)
	for p.Status() != sessions.Completed {
		renderPuzzle(t.out, p.Board())
		n, ok := t.promptInt("Slide tile: ")
		if !ok {
			return sessions.Result{}, false
		}
		index := -1
		for i, v := range p.Board() {
			if v == n && v != 0 {
				index = i
			}
		}
		if err := p.Slide(index); err != nil {
			fmt.Fprintln(t.out, badStyle.Render(err.Error()))
		}
	}
	renderPuzzle(t.out, p.Board())
	fmt.Fprintf(t.out, "Solved in %d moves.\n", p.Moves())
	return p.Result()
}

func playTyping(t *terminal, opts sessions.Options) (sessions.Result, bool) {
	ty := sessions.NewTyping(opts)
	fmt.Fprintln(t.out, mutedStyle.Render(strings.Join(ty.Words(), " ")))
	for ty.Status() != sessions.Completed {
		word := ty.CurrentWord()
		line, ok := t.prompt(fmt.Sprintf("[%d/%d] %s: ", ty.WordIndex()+1, sessions.TypingWordCount, word))
		if !ok {
			return sessions.Result{}, false
		}
		if err := ty.Type(line); err != nil {
			return sessions.Result{}, false
		}
		if err := ty.Submit(); err != nil {
			return sessions.Result{}, false
		}
	}
	fmt.Fprintf(t.out, "Accuracy %s%%\n", formatScore(ty.Accuracy()))
	return ty.Result()
}

func playColorMatch(t *terminal, opts sessions.Options) (sessions.Result, bool) {
	c := sessions.NewColorMatch(opts)
	for c.Status() != sessions.Completed {
		r := c.Round()
		word := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Ink.Hex)).Render(strings.ToUpper(r.Word.Name))
		fmt.Fprintf(t.out, "Round %d/%d: which colour is %s printed in?\n", c.RoundNumber(), sessions.ColorMatchRounds, word)
		for i, o := range r.Options {
			fmt.Fprintf(t.out, "  %d) %s\n", i+1, o.Name)
		}
		n, ok := t.promptInt("Answer: ")
		if !ok {
			return sessions.Result{}, false
		}
		right, err := c.Choose(n - 1)
		if err != nil {
			fmt.Fprintln(t.out, badStyle.Render(err.Error()))
			continue
		}
		if right {
			fmt.Fprintln(t.out, goodStyle.Render("Correct"))
		} else {
			fmt.Fprintln(t.out, badStyle.Render("Wrong, it was "+r.Ink.Name))
		}
	}
	fmt.Fprintf(t.out, "%d/%d correct.\n", c.Correct(), sessions.ColorMatchRounds)
	return c.Result()
}
