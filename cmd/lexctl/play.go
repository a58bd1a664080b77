package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lexical/internal/exam"
	"lexical/internal/match"
	"lexical/internal/types"
)

const quitCommand = ":q"

func examCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exam",
		Short: "Translate 30 random words from Turkish to English",
		Long:  "Translate 30 random words from Turkish to English. A wrong answer repeats the question. Type :q to give up.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			runner := exam.New(newRand())
			if err := runner.Start(s.Words(ctx)); err != nil {
				if errors.Is(err, types.ErrInsufficientData) {
					return fmt.Errorf("you need at least %d words in your vocabulary to start the exam", exam.Size)
				}
				return err
			}
			return runExam(runner, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runExam(runner *exam.Runner, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for runner.State() == exam.Running {
		prompt, err := runner.CurrentPrompt()
		if err != nil {
			return err
		}
		cur, total := runner.Progress()
		fmt.Fprintf(out, "[%d/%d] %s: ", cur+1, total, prompt)

		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == quitCommand {
			runner.Abandon()
			fmt.Fprintln(out, "\nExam abandoned.")
			return scanner.Err()
		}
		res, err := runner.SubmitAnswer(scanner.Text())
		if err != nil {
			return err
		}
		if res.Outcome == exam.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintln(out, "✗ Incorrect. Try again.")
		}
	}

	fmt.Fprintf(out, "Exam completed! You got %d out of %d correct.\n", runner.Score(), exam.Size)
	if !runner.Passed() {
		fmt.Fprintln(out, "You need to get all answers correct to pass. Please try again.")
	}
	return nil
}

func gameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game",
		Short: "Match 10 idioms with their meanings",
		Long:  "Match 10 idioms with their meanings. Enter an idiom number and a meaning letter, e.g. \"3 c\". Type :q to give up.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, storage, err := getStore(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			runner := match.New(newRand(), nil)
			if err := runner.Start(s.Idioms(ctx)); err != nil {
				if errors.Is(err, types.ErrInsufficientData) {
					return fmt.Errorf("you need at least %d idioms/useful phrases to play the game", match.PairCount)
				}
				return err
			}
			return runGame(runner, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runGame(runner *match.Runner, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for runner.State() == match.Running {
		board := runner.Board()
		printBoard(out, board)
		fmt.Fprint(out, "> ")

		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == quitCommand {
			runner.Abandon()
			fmt.Fprintln(out, "\nGame abandoned.")
			return scanner.Err()
		}
		i, j, ok := parseMove(scanner.Text(), len(board.Idioms))
		if !ok {
			fmt.Fprintln(out, "Enter an idiom number and a meaning letter, e.g. 3 c")
			continue
		}
		if board.Idioms[i].Matched || board.Meanings[j].Matched {
			fmt.Fprintln(out, "Already matched.")
			continue
		}
		if _, err := runner.SelectIdiom(board.Idioms[i].ID); err != nil {
			return err
		}
		res, err := runner.SelectMeaning(board.Meanings[j].ID)
		if err != nil {
			return err
		}
		switch res.Outcome {
		case match.Match:
			fmt.Fprintf(out, "✓ Match! %d/%d\n", res.Matched, match.PairCount)
		case match.Mismatch:
			fmt.Fprintln(out, "✗ Not a pair.")
		}
		if res.Finished {
			fmt.Fprintf(out, "Game Completed! Time: %d seconds. All %d pairs matched correctly!\n",
				int(res.Elapsed.Seconds()), match.PairCount)
		}
	}
	return nil
}

func printBoard(out io.Writer, b match.Board) {
	fmt.Fprintf(out, "\nMatched %d/%d, %ds\n", b.Matched, b.Total, int(b.Elapsed.Seconds()))
	for k := range b.Idioms {
		idiom, meaning := b.Idioms[k], b.Meanings[k]
		fmt.Fprintf(out, "%2d. %-30s  %c. %s\n", k+1, tile(idiom), 'a'+rune(k), tile(meaning))
	}
}

func tile(s match.Slot) string {
	if s.Matched {
		return "(" + s.Text + ")"
	}
	return s.Text
}

// parseMove reads "<idiom number> <meaning letter>" into zero-based indexes.
func parseMove(line string, n int) (int, int, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || len(fields[1]) != 1 {
		return 0, 0, false
	}
	i, err := strconv.Atoi(fields[0])
	if err != nil || i < 1 || i > n {
		return 0, 0, false
	}
	j := int(strings.ToLower(fields[1])[0]) - 'a'
	if j < 0 || j >= n {
		return 0, 0, false
	}
	return i - 1, j, true
}
