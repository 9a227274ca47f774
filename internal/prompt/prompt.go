// Package prompt asks the user questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrAborted is returned when input ends before an answer is given.
var ErrAborted = errors.New("prompt aborted")

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question defaulting to no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Input asks for free text. An empty answer yields def. When validate is
// non-nil the question repeats until it returns nil.
func (p *Prompter) Input(question, def string, validate func(string) error) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s (%s): ", question, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", question)
		}
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if validate == nil {
			return answer, nil
		}
		if err := validate(answer); err != nil {
			fmt.Fprintf(p.out, "  %v\n", err)
			continue
		}
		return answer, nil
	}
}

// Select asks for one of options, by number or by name. An empty answer
// picks the first option.
func (p *Prompter) Select(question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}
	for {
		fmt.Fprintln(p.out, question)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprintf(p.out, "Choice (1): ")
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			return options[0], nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, o := range options {
			if strings.EqualFold(o, answer) {
				return o, nil
			}
		}
		fmt.Fprintf(p.out, "  %q is not an option\n", answer)
	}
}

// MultiSelect asks for a comma-separated subset of options, by number or
// by name. An empty answer selects defaults.
func (p *Prompter) MultiSelect(question string, options, defaults []string) ([]string, error) {
	for {
		fmt.Fprintln(p.out, question)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprintf(p.out, "Choices, comma separated (%s): ", strings.Join(defaults, ","))
		answer, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if answer == "" {
			return append([]string(nil), defaults...), nil
		}

		var picked []string
		valid := true
		for _, part := range strings.Split(answer, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			choice := ""
			if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= len(options) {
				choice = options[n-1]
			} else {
				for _, o := range options {
					if strings.EqualFold(o, part) {
						choice = o
					}
				}
			}
			if choice == "" {
				fmt.Fprintf(p.out, "  %q is not an option\n", part)
				valid = false
				break
			}
			picked = append(picked, choice)
		}
		if valid && len(picked) > 0 {
			return picked, nil
		}
	}
}
