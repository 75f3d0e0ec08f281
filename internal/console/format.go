package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/bft-labs/swimset/internal/app"
	"github.com/bft-labs/swimset/internal/domain"
)

func newTable(w *strings.Builder) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeStatus(e *app.Engine, w *strings.Builder) {
	sess, idx := e.CurrentSession()
	sessions := e.Sessions()
	name := sess.Name
	if !sess.Named() {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "session %d/%d: %s  %dm %s  set %d/%d  rest %ds %s",
		idx+1, len(sessions), name, sess.Distance, sess.Stroke,
		sess.CurrentSet, sess.TotalSets, sess.RestSeconds, sess.RestMode)
	if sess.RestAutoStart {
		w.WriteString(" auto")
	}
	if sess.TargetTime != nil {
		fmt.Fprintf(w, "  target %s", *sess.TargetTime)
	}
	w.WriteString("\n")

	groups := lo.KeyBy(e.Groups(), func(g domain.Group) domain.GroupID { return g.ID })
	athletes := e.Athletes()
	if len(athletes) == 0 {
		w.WriteString("no athletes\n")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "LANE\tNAME\tGROUP\tSTATUS\tTIME\tBEST")
		for _, a := range athletes {
			best := "-"
			if a.BestTime != nil {
				best = a.BestTime.String()
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				a.Lane, a.Name, groups[a.GroupID].Name, a.Status, a.Time, best)
		}
		tw.Flush()
	}

	byID := lo.KeyBy(athletes, func(a domain.Athlete) domain.AthleteID { return a.ID })
	if q := e.Queue(); len(q) > 0 {
		parts := lo.Map(q, func(f domain.FinishEntry, _ int) string {
			return fmt.Sprintf("%d. %s %s", f.Rank, byID[f.AthleteID].Name, f.Time)
		})
		fmt.Fprintf(w, "queue: %s\n", strings.Join(parts, ", "))
	}
	if cds := e.Countdowns(); len(cds) > 0 {
		parts := lo.Map(cds, func(c domain.Countdown, _ int) string {
			return fmt.Sprintf("%s %s", subjectName(c.Subject, byID, groups), c.Remaining)
		})
		fmt.Fprintf(w, "rest: %s\n", strings.Join(parts, ", "))
	}
	if e.AtFinalSet() {
		w.WriteString("final set of the final session\n")
	}
}

func subjectName(s domain.RestSubject, athletes map[domain.AthleteID]domain.Athlete, groups map[domain.GroupID]domain.Group) string {
	if s.Kind == domain.SubjectGroup {
		if g, ok := groups[domain.GroupID(s.ID)]; ok {
			return g.Name
		}
	} else if a, ok := athletes[domain.AthleteID(s.ID)]; ok {
		return a.Name
	}
	return s.String()
}

func writeResults(e *app.Engine, w *strings.Builder) {
	results := e.Results()
	if len(results) == 0 {
		w.WriteString("no results\n")
		return
	}
	for _, g := range results {
		fmt.Fprintf(w, "%s  %dm %s  set %d\n", g.SessionName, g.Distance, g.Stroke, g.SetNumber)
		tw := newTable(w)
		fmt.Fprintln(tw, "  RANK\tNAME\tTIME\tTARGET\tID")
		for _, r := range g.Records {
			rank := "-"
			if r.Rank != nil {
				rank = fmt.Sprint(*r.Rank)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", rank, r.AthleteName, r.Time, targetDelta(r), r.ID)
		}
		tw.Flush()
	}
}

// targetDelta formats the difference to the target as -00:01.20 (faster) or +00:00.50.
func targetDelta(r domain.Record) string {
	cmp, ok := domain.CompareToTarget(r.Time, r.TargetTime)
	if !ok {
		return "-"
	}
	sign := "+"
	if cmp.Faster {
		sign = "-"
	}
	return fmt.Sprintf("%s%s (%.1f%%)", sign, cmp.Difference, cmp.Percentage)
}
