// Package metrics implements classification metrics and the per-class report
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
)

// Accuracy returns the fraction of exact label matches. Empty input has accuracy 0.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.Errorf("metrics: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue)), nil
}

// ClassScore holds the one-vs-rest scores of a single class.
type ClassScore struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a per-class precision/recall/F1 report with accuracy and averages.
type Report struct {
	Classes  []ClassScore
	Accuracy float64
	Macro    ClassScore
	Weighted ClassScore
}

// ClassificationReport scores every label present in yTrue or yPred.
// Undefined precision or recall (zero denominator) counts as 0.
func ClassificationReport(yTrue, yPred []int) (*Report, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	var labels = make(map[int]struct{})
	for i := range yTrue {
		labels[yTrue[i]] = struct{}{}
		labels[yPred[i]] = struct{}{}
	}
	var sorted = make([]int, 0, len(labels))
	for l := range labels {
		sorted = append(sorted, l)
	}
	sort.Ints(sorted)

	r := &Report{Accuracy: acc}
	var total int
	for _, l := range sorted {
		tp, fp, fn := 0, 0, 0
		for i := range yTrue {
			switch {
			case yPred[i] == l && yTrue[i] == l:
				tp++
			case yPred[i] == l:
				fp++
			case yTrue[i] == l:
				fn++
			}
		}
		s := ClassScore{Label: fmt.Sprint(l), Support: tp + fn}
		s.Precision, s.Recall, s.F1 = prf(tp, fp, fn)
		r.Classes = append(r.Classes, s)
		total += s.Support
	}

	r.Macro = ClassScore{Label: "macro avg", Support: total}
	r.Weighted = ClassScore{Label: "weighted avg", Support: total}
	for _, s := range r.Classes {
		r.Macro.Precision += s.Precision / float64(len(r.Classes))
		r.Macro.Recall += s.Recall / float64(len(r.Classes))
		r.Macro.F1 += s.F1 / float64(len(r.Classes))
		if total > 0 {
			w := float64(s.Support) / float64(total)
			r.Weighted.Precision += s.Precision * w
			r.Weighted.Recall += s.Recall * w
			r.Weighted.F1 += s.F1 * w
		}
	}
	return r, nil
}

func prf(tp, fp, fn int) (prec, rec, f1 float64) {
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// String renders the report as plain aligned text.
func (r *Report) String() string {
	var b strings.Builder
	width := len("weighted avg")
	for _, s := range r.Classes {
		if len(s.Label) > width {
			width = len(s.Label)
		}
	}
	row := func(s ClassScore) {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, s.Label, s.Precision, s.Recall, s.F1, s.Support)
	}
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, s := range r.Classes {
		row(s)
	}
	fmt.Fprintf(&b, "\n%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Macro.Support)
	row(r.Macro)
	row(r.Weighted)
	return b.String()
}

// Render draws the report as a bordered terminal table.
func (r *Report) Render() string {
	cell := func(s ClassScore) []string {
		return []string{
			s.Label,
			fmt.Sprintf("%.2f", s.Precision),
			fmt.Sprintf("%.2f", s.Recall),
			fmt.Sprintf("%.2f", s.F1),
			fmt.Sprint(s.Support),
		}
	}
	var rows [][]string
	for _, s := range r.Classes {
		rows = append(rows, cell(s))
	}
	rows = append(rows,
		[]string{"accuracy", "", "", fmt.Sprintf("%.2f", r.Accuracy), fmt.Sprint(r.Macro.Support)},
		cell(r.Macro),
		cell(r.Weighted),
	)

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	body := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("class", "precision", "recall", "f1-score", "support").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col > 0 {
				return body.Align(lipgloss.Right)
			}
			return body
		}).
		String()
}
