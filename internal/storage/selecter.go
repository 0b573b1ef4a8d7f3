package storage

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal"
)

const (
	defaultSelectorRowLength = 80
	defaultSelectorRowCount  = 5
)

type validatingSelectable interface {
	ValidatingSpec
	Selector() string
}

// SelectableStorer offers the assets of a store as a numbered menu.
type SelectableStorer[T validatingSelectable] struct {
	Storer[T]

	options []option[T]
	output  []string
}

type option[T validatingSelectable] struct {
	id  string
	val T
}

func NewSelectableStorer[T validatingSelectable](st Storer[T]) *SelectableStorer[T] {
	s := &SelectableStorer[T]{Storer: st}

	for id, val := range s.GetAll() {
		s.options = append(s.options, option[T]{id: id, val: val})
	}
	slices.SortFunc(s.options, func(a, b option[T]) int {
		if c := strings.Compare(a.val.Selector(), b.val.Selector()); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	s.build()

	return s
}

// Len is the number of menu entries.
func (s *SelectableStorer[T]) Len() int {
	return len(s.options)
}

// build lays the entries out column by column, growing past the default
// row count when they will not fit across the line.
func (s *SelectableStorer[T]) build() {
	colWidth := 1
	for _, v := range s.options {
		// "nn. " before the value and two spaces after
		if l := len(v.val.Selector()) + 6; l > colWidth {
			colWidth = l
		}
	}

	numCols := max(1, defaultSelectorRowLength/colWidth)
	numRows := max(defaultSelectorRowCount, (len(s.options)+numCols-1)/numCols)

	rows := make([]string, numRows)
	for i, v := range s.options {
		rows[i%numRows] += fmt.Sprintf("%2d. %-*s  ", i+1, colWidth-6, v.val.Selector())
	}
	for i := range rows {
		rows[i] = strings.TrimRight(rows[i], " ")
	}

	s.output = rows
}

// Prompt shows the menu and returns the id and value picked.
func (s *SelectableStorer[T]) Prompt(term *internal.Terminal, prompt string) (string, T, error) {
	var zero T
	if err := term.Writef("%s\n", prompt); err != nil {
		return "", zero, err
	}
	for _, str := range s.output {
		if str == "" {
			continue
		}
		if err := term.Writef("%s\n", str); err != nil {
			return "", zero, err
		}
	}

	selection, err := term.Prompt("Make your selection: ", internal.WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(str)
			if err != nil || s.Select(i) == "" {
				return false, "Invalid selection!\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return "", zero, err
	}

	i, err := strconv.Atoi(selection)
	if err != nil {
		return "", zero, err
	}
	id := s.Select(i)
	return id, s.Get(id), nil
}

// Select returns the id of the 1-based entry i, or "" when out of range.
func (s *SelectableStorer[T]) Select(i int) string {
	if i < 1 || i > len(s.options) {
		return ""
	}
	return s.options[i-1].id
}
