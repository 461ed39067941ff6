package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/report"
)

// gradeColors uses single attributes only so every colored cell carries
// escape codes of the same width and tabwriter columns stay aligned.
var gradeColors = map[int]*color.Color{
	1: color.New(color.FgGreen),
	2: color.New(color.FgCyan),
	3: color.New(color.FgYellow),
	4: color.New(color.FgMagenta),
	5: color.New(color.FgRed),
}

func paint(rank int, s string) string {
	if c, ok := gradeColors[rank]; ok {
		return c.Sprint(s)
	}
	return s
}

func paintGrade(g electre.Grade) string {
	if g == "" {
		return "-"
	}
	return paint(g.Rank(), g.String())
}

func paintClass(c electre.Class) string { return paint(c.Rank(), c.String()) }

func renderReport(w io.Writer, rep *report.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rep.Columns, "\t"))
	for _, row := range rep.Rows {
		cells := []string{row.ProductID, row.Name, paintGrade(row.NutriScore.Grade)}
		for _, r := range row.Results {
			cells = append(cells, paintClass(r.Pessimistic), paintClass(r.Optimistic))
		}
		sn := "-"
		if row.SuperNutri != nil {
			sn = paintGrade(row.SuperNutri.Grade)
		}
		cells = append(cells, sn)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	s := rep.Summary
	fmt.Fprintf(w, "\n%d products, run %s\n", s.Products, rep.RunID)
	if s.Products == 0 {
		return
	}
	fmt.Fprintln(w, "Agreement with Nutri-Score:")
	for _, col := range rep.Columns {
		if v, ok := s.Agreement[col]; ok {
			fmt.Fprintf(w, "  %-28s %5.1f%%\n", col, 100*v)
		}
	}
	fmt.Fprintln(w, "Pessimistic = optimistic:")
	keys := make([]string, 0, len(s.ProcedureAgreement))
	for k := range s.ProcedureAgreement {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-28s %5.1f%%\n", k, 100*s.ProcedureAgreement[k])
	}
	if s.ReferenceProducts > 0 {
		fmt.Fprintf(w, "Agreement with shipped Nutri-Score (%d products):\n", s.ReferenceProducts)
		for _, col := range rep.Columns {
			if v, ok := s.ReferenceAgreement[col]; ok {
				fmt.Fprintf(w, "  %-28s %5.1f%%\n", col, 100*v)
			}
		}
	}
	if len(s.Frontier) > 0 {
		fmt.Fprintf(w, "Non-dominated: %s\n", strings.Join(s.Frontier, ", "))
	}
	for _, row := range rep.Rows {
		for _, warn := range row.Warnings {
			fmt.Fprintf(w, "warning: %s: %s\n", row.ProductID, warn)
		}
	}
}

func renderProfiles(w io.Writer, profiles *electre.Profiles, criteria electre.Criteria) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"criterion", "direction", "weight"}
	for i := range profiles.Boundaries {
		header = append(header, "π"+strconv.Itoa(i+1))
	}
	header = append(header, "source")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, c := range criteria {
		cells := []string{c.ID, string(c.Direction), strconv.Itoa(c.Weight)}
		for _, b := range profiles.Boundaries {
			cells = append(cells, strconv.FormatFloat(b.Get(c.ID), 'g', 6, 64))
		}
		cells = append(cells, string(profiles.Source[c.ID]))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	if profiles.PopulationSize > 0 {
		fmt.Fprintf(w, "\npopulation: %d products, hash %s\n", profiles.PopulationSize, profiles.PopulationHash)
	}
}
