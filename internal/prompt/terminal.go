// Package prompt implements the operator dialogs on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fjacquet/session-payments/internal/models"
	"fjacquet/session-payments/internal/patient"

	"github.com/fatih/color"
)

// Terminal asks the operator through line-oriented text I/O. Answers are
// case-insensitive and entered names and identifiers are upper-cased.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	heading *color.Color
	option  *color.Color
	warning *color.Color
	success *color.Color
}

var (
	_ patient.Chooser         = (*Terminal)(nil)
	_ patient.IdentifierAsker = (*Terminal)(nil)
)

// NewTerminal creates a Terminal reading answers from in and writing to out.
// Colors are only emitted when out is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:      bufio.NewReader(in),
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		option:  color.New(color.FgYellow),
		warning: color.New(color.FgRed),
		success: color.New(color.FgGreen),
	}
	if f, ok := out.(*os.File); !ok || f != os.Stdout || color.NoColor {
		for _, c := range []*color.Color{t.heading, t.option, t.warning, t.success} {
			c.DisableColor()
		}
	}
	return t
}

// Choose lists the candidates and waits for a selection, "N" for a new
// patient or "S" to skip.
func (t *Terminal) Choose(query, context string, candidates []patient.Candidate) (patient.Choice, error) {
	t.printf(t.heading, "\nUnclear match. Searching similar patient for: %s, %s\n", query, context)

	if len(candidates) == 0 {
		t.printf(t.warning, "No patient found.\n")
	} else {
		t.printf(nil, "\nSimilar patients found:\n\n")
		for i, c := range candidates {
			t.printf(nil, "%d) %s   -   %.1f%%\n", i, c.Record.FullName, c.Score)
		}
	}
	t.printf(t.option, "N) Add new patient.\n")
	t.printf(t.option, "S) Skip this transaction.\n")

	question := "Select the correct patient number: "
	if len(candidates) == 0 {
		question = "Choose an option (N/S): "
	}

	for {
		answer, err := t.ask(question)
		if err != nil {
			return patient.Choice{}, err
		}

		switch answer {
		case "S":
			t.printf(nil, "Transaction skipped\n")
			return patient.Skip(), nil
		case "N":
			rec, err := t.askNewPatient()
			if err != nil {
				return patient.Choice{}, err
			}
			t.printf(t.success, "Patient added: %s with ID Number %s\n", rec.FullName, rec.IDNumber)
			return patient.NewPatient(rec), nil
		}

		index, err := strconv.Atoi(answer)
		if err != nil {
			t.printf(t.warning, "Invalid input.\n")
			continue
		}
		if index < 0 || index >= len(candidates) {
			t.printf(t.warning, "Invalid option, try again.\n")
			continue
		}
		t.printf(t.success, "Patient selected: %s\n", candidates[index].Record.FullName)
		return patient.Select(index), nil
	}
}

// AskIdentifier asks for the identifier of a patient about to be created.
func (t *Terminal) AskIdentifier(name string) (string, error) {
	t.printf(t.heading, "Add new patient: %s\n", name)
	return t.askRequired(fmt.Sprintf("Enter ID Number for %s: ", name))
}

// AskNumber keeps asking question until the answer is an integer accepted by
// valid.
func (t *Terminal) AskNumber(question string, valid func(int) bool) (int, error) {
	for {
		answer, err := t.ask(question)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || (valid != nil && !valid(n)) {
			t.printf(t.warning, "Invalid value.\n")
			continue
		}
		return n, nil
	}
}

func (t *Terminal) askNewPatient() (models.PatientRecord, error) {
	name, err := t.askRequired("Enter full name of new patient: ")
	if err != nil {
		return models.PatientRecord{}, err
	}
	id, err := t.askRequired("Enter ID Number of new patient: ")
	if err != nil {
		return models.PatientRecord{}, err
	}
	return models.PatientRecord{FullName: name, IDNumber: id}, nil
}

func (t *Terminal) askRequired(question string) (string, error) {
	for {
		answer, err := t.ask(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		t.printf(t.warning, "A value is required.\n")
	}
}

// ask prints question and returns the trimmed, upper-cased answer. Running
// out of input is reported as io.ErrUnexpectedEOF.
func (t *Terminal) ask(question string) (string, error) {
	t.printf(nil, "%s", question)

	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			t.printf(nil, "\n")
			return "", fmt.Errorf("operator input closed: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("reading operator input: %w", err)
	}
	return strings.ToUpper(strings.Join(strings.Fields(line), " ")), nil
}

func (t *Terminal) printf(c *color.Color, format string, args ...interface{}) {
	if c == nil {
		_, _ = fmt.Fprintf(t.out, format, args...)
		return
	}
	_, _ = c.Fprintf(t.out, format, args...)
}
